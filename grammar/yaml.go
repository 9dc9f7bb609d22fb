package grammar

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lunfardo314/sestring"
	"gopkg.in/yaml.v3"
)

// HexPrefix marks a column given as hex encoded bytes, which may contain macros
const HexPrefix = "hex:"

type (
	sheetsYAML struct {
		Sheets []sheetYAML `yaml:"sheets"`
	}

	sheetYAML struct {
		Name     string    `yaml:"name"`
		Language string    `yaml:"language"`
		Rows     []rowYAML `yaml:"rows"`
	}

	rowYAML struct {
		ID      uint32   `yaml:"id"`
		Columns []string `yaml:"columns"`
	}
)

func decodeColumn(c string) ([]byte, error) {
	if !strings.HasPrefix(c, HexPrefix) {
		return []byte(c), nil
	}
	return hex.DecodeString(strings.TrimPrefix(c, HexPrefix))
}

// LoadYAML reads sheets from YAML and stores all rows in one batch. Returns number of rows
func (s *Store) LoadYAML(r io.Reader) (int, error) {
	var data sheetsYAML
	if err := yaml.NewDecoder(r).Decode(&data); err != nil {
		if err == io.EOF {
			return 0, nil
		}
		return 0, fmt.Errorf("LoadYAML: %w", err)
	}
	rows := make([]Row, 0)
	for _, sh := range data.Sheets {
		lang, err := sestring.ParseLanguage(sh.Language)
		if err != nil {
			return 0, fmt.Errorf("LoadYAML: sheet '%s': %w", sh.Name, err)
		}
		for _, r := range sh.Rows {
			row := Row{
				Language: lang,
				Sheet:    sh.Name,
				ID:       r.ID,
				Cells:    make([][]byte, len(r.Columns)),
			}
			for i, c := range r.Columns {
				if row.Cells[i], err = decodeColumn(c); err != nil {
					return 0, fmt.Errorf("LoadYAML: %s/%s/%d column %d: %w", lang, sh.Name, r.ID, i, err)
				}
			}
			rows = append(rows, row)
		}
	}
	if err := s.PutRows(rows...); err != nil {
		return 0, fmt.Errorf("LoadYAML: %w", err)
	}
	return len(rows), nil
}

func (s *Store) LoadFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	n, err := s.LoadYAML(f)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	return n, nil
}
