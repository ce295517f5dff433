package types

type SchemaTable struct {
	Name    string
	Columns []SchemaColumn
}

type SchemaColumn struct {
	Name             string
	Type             string // canonical: INTEGER, REAL or TEXT
	Nullable         bool
	IsPrimary        bool
	ForeignKeyTable  string
	ForeignKeyColumn string
}

// ColumnNames returns the column names in declaration order.
func (t SchemaTable) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		names[i] = col.Name
	}
	return names
}

// Dependencies lists the distinct tables referenced by foreign keys, self-references excluded.
func (t SchemaTable) Dependencies() []string {
	var deps []string
	seen := make(map[string]bool)
	for _, col := range t.Columns {
		if col.ForeignKeyTable == "" || col.ForeignKeyTable == t.Name || seen[col.ForeignKeyTable] {
			continue
		}
		seen[col.ForeignKeyTable] = true
		deps = append(deps, col.ForeignKeyTable)
	}
	return deps
}
