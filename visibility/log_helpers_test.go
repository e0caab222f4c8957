package visibility

import (
	"context"
	"github.com/aurorasolar/go-oraclient/utils"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"strings"
	"testing"
)

func TestContextLogging(t *testing.T) {
	ctx := context.Background()

	sink, logger := utils.NewMemorySinkLogger()

	imbued := ImbueContext(ctx, logger)
	assert.True(t, HasLogger(imbued))
	CL(imbued).Info("Opened connection", zap.Int64("attempt", 123))
	CLS(imbued).Infof("Opened connection %d", 123)

	res := sink.String()
	splits := strings.Split(res, "\n")
	assert.True(t, strings.HasSuffix(splits[0],
		`"msg":"Opened connection","attempt":123}`))
	assert.True(t, strings.HasSuffix(splits[1],
		`"msg":"Opened connection 123"}`))
}

func TestNoLog(t *testing.T) {
	ctx := context.Background()
	assert.False(t, HasLogger(ctx))
	assert.Panics(t, func() {
		CL(ctx)
	})
	assert.Panics(t, func() {
		CLS(ctx)
	})
}
