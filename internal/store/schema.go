package store

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"entgo.io/ent"
	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/entsql"
	sqlschema "entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	events "github.com/abhisek/learnpath/ent/schema"
)

// eventSchemas are the ent schemas migrated into the database. Each event
// type lives in its own table; the sequence column is assigned from the
// shared counter in event.go so rows can be ordered across tables.
var eventSchemas = []ent.Interface{
	events.RequestEvent{},
	events.LLMRequestEvent{},
}

// migrate creates or alters the event tables to match eventSchemas.
func migrate(ctx context.Context, drv dialect.Driver) error {
	tables, err := eventTables()
	if err != nil {
		return err
	}
	m, err := sqlschema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	if err := m.Create(ctx, tables...); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// eventTables converts eventSchemas into SQL table definitions.
func eventTables() ([]*sqlschema.Table, error) {
	tables := make([]*sqlschema.Table, 0, len(eventSchemas))
	for _, s := range eventSchemas {
		t, err := tableFor(s)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, nil
}

func tableFor(s ent.Interface) (*sqlschema.Table, error) {
	name := tableName(s)
	t := sqlschema.NewTable(name).
		AddPrimary(&sqlschema.Column{Name: "id", Type: field.TypeInt, Increment: true})

	var (
		fields  []ent.Field
		indexes []ent.Index
	)
	for _, m := range s.Mixin() {
		fields = append(fields, m.Fields()...)
		indexes = append(indexes, m.Indexes()...)
	}
	fields = append(fields, s.Fields()...)
	indexes = append(indexes, s.Indexes()...)

	for _, f := range fields {
		d := f.Descriptor()
		if d.Err != nil {
			return nil, fmt.Errorf("%s.%s: %w", name, d.Name, d.Err)
		}
		t.AddColumn(column(d))
	}
	for _, idx := range indexes {
		d := idx.Descriptor()
		idxName := d.StorageKey
		if idxName == "" {
			idxName = name + "_" + strings.Join(d.Fields, "_")
		}
		t.AddIndex(idxName, d.Unique, d.Fields)
	}
	return t, nil
}

func column(d *field.Descriptor) *sqlschema.Column {
	c := &sqlschema.Column{
		Name:     d.Name,
		Type:     d.Info.Type,
		Size:     int64(d.Size),
		Unique:   d.Unique,
		Nullable: d.Optional,
		Comment:  d.Comment,
	}
	if d.StorageKey != "" {
		c.Name = d.StorageKey
	}
	// Function defaults are applied by the writer, not the database.
	if d.Default != nil && reflect.TypeOf(d.Default).Kind() != reflect.Func {
		c.Default = d.Default
	}
	return c
}

// tableName returns the table named by the schema's entsql annotation, or
// the lower-cased type name.
func tableName(s ent.Interface) string {
	for _, a := range s.Annotations() {
		if ann, ok := a.(entsql.Annotation); ok && ann.Table != "" {
			return ann.Table
		}
	}
	return strings.ToLower(reflect.TypeOf(s).Name())
}
