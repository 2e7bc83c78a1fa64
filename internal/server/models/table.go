package models

import "fmt"

// Table identifies an entity's backing table. Only the values below exist,
// so a Table can be spliced into SQL as an identifier.
type Table string

const (
	TableUser Table = "user"
	TablePost Table = "post"
)

// ParseTable maps a name typed by an operator onto a Table.
func ParseTable(name string) (Table, error) {
	switch Table(name) {
	case TableUser, TablePost:
		return Table(name), nil
	case "users":
		return TableUser, nil
	case "posts":
		return TablePost, nil
	}
	return "", fmt.Errorf("unknown table %q", name)
}

// Quoted returns the table name as a double-quoted SQL identifier.
// "user" is reserved in PostgreSQL, so it is always quoted.
func (t Table) Quoted() string {
	return `"` + string(t) + `"`
}

// Dependents lists the tables whose rows reference t and are removed with
// it by ON DELETE CASCADE.
func (t Table) Dependents() []Table {
	if t == TableUser {
		return []Table{TablePost}
	}
	return nil
}
