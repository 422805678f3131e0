package iocache

import (
	"testing"

	"github.com/huangsam/paddock/schema"
	"github.com/stretchr/testify/assert"
)

// TestValidateTableName tests the validateTableName function with various inputs.
func TestValidateTableName(t *testing.T) {
	tests := []struct {
		name      string
		tableName string
		wantErr   bool
	}{
		{name: "valid simple name", tableName: "json_cache"},
		{name: "valid name with numbers", tableName: "cache_2021"},
		{name: "valid name starting with underscore", tableName: "_cache"},
		{name: "valid mixed case", tableName: "PaddockLoads_1"},
		{name: "empty name", tableName: "", wantErr: true},
		{name: "starts with number", tableName: "1_cache", wantErr: true},
		{name: "contains dash", tableName: "json-cache", wantErr: true},
		{name: "contains space", tableName: "json cache", wantErr: true},
		{name: "sql injection attempt", tableName: "x'; DROP TABLE paddock_load_runs; --", wantErr: true},
		{name: "contains dot", tableName: "main.json_cache", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTableName(tt.tableName)
			if tt.wantErr {
				assert.Error(t, err, "validateTableName should error for %q", tt.tableName)
			} else {
				assert.NoError(t, err, "validateTableName should not error for %q", tt.tableName)
			}
		})
	}
}

// TestQuoteTableName tests the quoteTableName function for all backends.
func TestQuoteTableName(t *testing.T) {
	tests := []struct {
		backend schema.DatabaseBackend
		want    string
	}{
		{schema.SQLiteBackend, `"json_cache"`},
		{schema.MySQLBackend, "`json_cache`"},
		{schema.PostgreSQLBackend, `"json_cache"`},
		{schema.NoneBackend, `"json_cache"`},
	}

	for _, tt := range tests {
		t.Run(string(tt.backend), func(t *testing.T) {
			assert.Equal(t, tt.want, quoteTableName("json_cache", tt.backend))
		})
	}
}

func TestNamespaceTablesAndPlaceholders(t *testing.T) {
	assert.Equal(t, "json_cache", tableFor(schema.JSONNamespace))
	assert.Equal(t, "text_cache", tableFor(schema.TextNamespace))
	assert.Equal(t, "image_cache", tableFor(schema.ImageNamespace))
	for _, ns := range schema.AllNamespaces {
		assert.NoError(t, validateTableName(tableFor(ns)))
	}

	assert.Equal(t, "$3", placeholder(schema.PostgreSQLBackend, 3))
	assert.Equal(t, "?", placeholder(schema.MySQLBackend, 3))
	assert.Equal(t, "?", placeholder(schema.SQLiteBackend, 1))

	assert.Equal(t, "pgx", driverFor(schema.PostgreSQLBackend))
	assert.Equal(t, "mysql", driverFor(schema.MySQLBackend))
	assert.Equal(t, "sqlite", driverFor(schema.SQLiteBackend))
}
