package codec

import (
	"bytes"
	"encoding/csv"
	"reflect"

	"github.com/cockroachdb/errors"
	"github.com/mitchellh/mapstructure"
)

// decodeCSV reads a document whose first row is a header. Slice targets get
// one element per row; any other target gets the first row.
func (s *Serializer) decodeCSV(content []byte, result interface{}, target reflect.Type) error {
	reader := csv.NewReader(bytes.NewReader(content))
	reader.Comma = s.csvSeparator
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return errors.New("csv: missing header row")
	}

	header := records[0]
	rows := make([]map[string]interface{}, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]interface{}, len(header))
		for i, column := range header {
			if i < len(record) {
				row[column] = record[i]
			}
		}
		rows = append(rows, row)
	}

	var input interface{} = rows
	if target.Kind() != reflect.Slice {
		if len(rows) == 0 {
			return errors.New("csv: no data rows")
		}
		input = rows[0]
	}

	decoder, err := mapstructure.NewDecoder(decoderConfig(result, "csv", true, nil))
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}
