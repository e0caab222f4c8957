package oraclient

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestValidate(t *testing.T) {
	err := (&Options{}).Validate()
	var ve *ValidationError
	if assert.ErrorAs(t, err, &ve) {
		assert.Equal(t, "DataSource", ve.Field)
	}
	assert.EqualError(t, err, "oraclient: invalid DataSource: must not be empty")

	assert.NoError(t, (&Options{DataSource: "ORCL"}).Validate())
}

func TestCloneIsDeep(t *testing.T) {
	maxPool := 5
	pooling := true
	orig := Options{DataSource: "ORCL", MaxPoolSize: &maxPool, Pooling: &pooling}

	cp := orig.clone()
	maxPool = 50
	pooling = false

	assert.Equal(t, 5, *cp.MaxPoolSize)
	assert.True(t, *cp.Pooling)
	assert.Nil(t, cp.MinPoolSize)
}
