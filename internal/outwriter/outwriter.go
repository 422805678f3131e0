// Package outwriter renders paddock results as tables, CSV, JSON or Parquet.
package outwriter
