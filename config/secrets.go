package config

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/aurorasolar/go-oraclient/oraclient"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"strconv"
)

// Example secret structure:
// {
//   "username": "scott",
//   "password": "7f*w3-oOZ$17,g&b_uVIH;N^Or]=H7<>",
//   "host": "orcl.cbimanaxd4pt.us-east-2.rds.amazonaws.com",
//   "port": 1521, "dbname": "ORCL"
// }
type secretInfo struct {
	Username string      `json:"username"`
	Password string      `json:"password"`
	Host     string      `json:"host"`
	Port     json.Number `json:"port"`
	DbName   string      `json:"dbname"`
}

// ResolveSecret fills the credentials and, when missing, the data source from
// a Secrets Manager secret. Values already present in opts are kept.
func ResolveSecret(ctx context.Context, config aws.Config, secretID string,
	opts *oraclient.Options) error {

	if secretID == "" {
		return &oraclient.ValidationError{Field: "secret id", Reason: "must not be empty"}
	}

	sm := secretsmanager.New(config)
	result, err := sm.GetSecretValueRequest(&secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretID),
		// VersionStage defaults to AWSCURRENT if unspecified
		VersionStage: aws.String("AWSCURRENT"),
	}).Send(ctx)
	if err != nil {
		return fmt.Errorf("failed to read secret %s: %w", secretID, err)
	}

	if result.SecretString == nil || *result.SecretString == "" {
		return fmt.Errorf("secret %s has no string value", secretID)
	}

	info := secretInfo{}
	if err := json.Unmarshal([]byte(*result.SecretString), &info); err != nil {
		return fmt.Errorf("secret %s is not valid JSON: %w", secretID, err)
	}

	if opts.UserName == "" {
		opts.UserName = info.Username
	}
	if opts.Password == "" {
		opts.Password = info.Password
	}
	if opts.DataSource == "" && info.Host != "" {
		opts.DataSource = secretDataSource(info)
	}
	return nil
}

func secretDataSource(info secretInfo) string {
	res := info.Host
	if info.Port != "" {
		if port, err := strconv.Atoi(info.Port.String()); err == nil {
			res += ":" + strconv.Itoa(port)
		}
	}
	if info.DbName != "" {
		res += "/" + info.DbName
	}
	return res
}
