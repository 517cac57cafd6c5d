package meta

import (
	"encoding/json"
	"log/slog"
)

// ContractMeta describes the context grid an interpreter caller exposes to
// its expressions.
type ContractMeta struct {
	Name        string   `json:"name"        yaml:"name"`
	Description string   `json:"desc"        yaml:"desc"`
	Alias       string   `json:"alias"       yaml:"alias"`
	Source      string   `json:"source"      yaml:"source"`
	Methods     []Method `json:"methods"     yaml:"methods"`
}

// Method is a contract entry point that evaluates expressions.
type Method struct {
	Name        string       `json:"name"        yaml:"name"`
	Description string       `json:"desc"        yaml:"desc"`
	Expressions []Expression `json:"expressions" yaml:"expressions"`
}

// Expression lists the context columns available to one expression.
type Expression struct {
	Name    string   `json:"name"                     yaml:"name"`
	Columns []Column `json:"contextColumns,omitempty" yaml:"contextColumns,omitempty"`
}

// Column is one column of the context grid.
type Column struct {
	Name        string `json:"name"            yaml:"name"`
	Description string `json:"desc"            yaml:"desc"`
	Alias       string `json:"alias"           yaml:"alias"`
	ID          int    `json:"id"              yaml:"id"`
	Cells       []Cell `json:"cells,omitempty" yaml:"cells,omitempty"`
}

// Cell is one row of a context column.
type Cell struct {
	Name        string `json:"name"  yaml:"name"`
	Description string `json:"desc"  yaml:"desc"`
	Alias       string `json:"alias" yaml:"alias"`
	ID          int    `json:"id"    yaml:"id"`
}

// ContextAlias names a column, or a single cell when Row is set.
type ContextAlias struct {
	Name        string `json:"name"          yaml:"name"`
	Description string `json:"desc"          yaml:"desc"`
	Column      int    `json:"column"        yaml:"column"`
	Row         *int   `json:"row,omitempty" yaml:"row,omitempty"`
}

func (a ContextAlias) same(b ContextAlias) bool {
	if a.Column != b.Column || (a.Row == nil) != (b.Row == nil) {
		return false
	}

	return a.Row == nil || *a.Row == *b.Row
}

// DecodeContractMeta parses an interpreter-caller-meta payload.
func DecodeContractMeta(data []byte) (ContractMeta, error) {
	var cm ContractMeta

	if err := json.Unmarshal(data, &cm); err != nil {
		return ContractMeta{}, ErrMalformedPayload.Wrap(err).
			With(slog.String("magic", InterpreterCallerMetaV1.String()))
	}

	return cm, nil
}

// Aliases flattens every aliased column and cell of every method into a list
// of context aliases. The same alias may appear more than once only if it
// refers to the same column and row each time.
func (cm ContractMeta) Aliases() ([]ContextAlias, error) {
	var aliases []ContextAlias

	index := make(map[string]int)

	add := func(a ContextAlias) error {
		if a.Name == "" {
			return nil
		}

		if i, ok := index[a.Name]; ok {
			if !aliases[i].same(a) {
				return ErrDuplicateAlias.With(slog.String("alias", a.Name))
			}

			return nil
		}

		index[a.Name] = len(aliases)
		aliases = append(aliases, a)

		return nil
	}

	for _, m := range cm.Methods {
		for _, e := range m.Expressions {
			for _, col := range e.Columns {
				err := add(ContextAlias{
					Name:        col.Alias,
					Description: col.Description,
					Column:      col.ID,
				})
				if err != nil {
					return nil, err
				}

				for _, cell := range col.Cells {
					row := cell.ID

					err := add(ContextAlias{
						Name:        cell.Alias,
						Description: cell.Description,
						Column:      col.ID,
						Row:         &row,
					})
					if err != nil {
						return nil, err
					}
				}
			}
		}
	}

	return aliases, nil
}
