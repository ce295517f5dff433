package synth

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Lumos-Labs-HQ/shopgen/internal/schema"
)

// Artifact describes one written CSV file.
type Artifact struct {
	Table string
	Path  string
	Rows  int
}

type collection struct {
	table string
	rows  [][]string
}

func records[T interface{ Record() []string }](items []T) [][]string {
	rows := make([][]string, len(items))
	for i, item := range items {
		rows[i] = item.Record()
	}
	return rows
}

func (d *Dataset) collections() []collection {
	return []collection{
		{schema.Customers, records(d.Customers)},
		{schema.Products, records(d.Products)},
		{schema.Orders, records(d.Orders)},
		{schema.OrderItems, records(d.OrderItems)},
		{schema.Payments, records(d.Payments)},
	}
}

// WriteCSV writes one header-prefixed CSV per collection into dir,
// overwriting files of the same name.
func (d *Dataset) WriteCSV(dir string) ([]Artifact, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	artifacts := make([]Artifact, 0, 5)
	for _, c := range d.collections() {
		header, ok := schema.Columns(c.table)
		if !ok {
			return artifacts, fmt.Errorf("unknown table %s", c.table)
		}
		path := filepath.Join(dir, schema.ArtifactName(c.table))
		if err := writeCSV(path, header, c.rows); err != nil {
			return artifacts, fmt.Errorf("failed to write %s: %w", path, err)
		}
		artifacts = append(artifacts, Artifact{Table: c.table, Path: path, Rows: len(c.rows)})
	}
	return artifacts, nil
}

func writeCSV(path string, header []string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return err
	}
	if err := writer.WriteAll(rows); err != nil {
		return err
	}
	return file.Close()
}
