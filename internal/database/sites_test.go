package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateTenantDBName(t *testing.T) {
	assert.NoError(t, validateTenantDBName("tenant_s1", "juzbuild"))

	assert.ErrorContains(t, validateTenantDBName("", "juzbuild"), "empty")
	assert.ErrorContains(t, validateTenantDBName("juzbuild", "juzbuild"), "protected")
	assert.ErrorContains(t, validateTenantDBName("admin", "juzbuild"), "protected")
	assert.ErrorContains(t, validateTenantDBName("local", "juzbuild"), "protected")
	assert.ErrorContains(t, validateTenantDBName("config", "juzbuild"), "protected")
}
