package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/mmrzaf/mrdatagen/internal/domain"
)

// HashSchema returns a stable digest of everything that shapes the generated
// rows. Target settings and the seed are left out; see HashRunConfig.
func HashSchema(schema *domain.Schema) (string, error) {
	data, err := json.Marshal(canonicalizeSchema(schema))
	if err != nil {
		return "", err
	}
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:]), nil
}

func canonicalizeSchema(schema *domain.Schema) map[string]interface{} {
	columns := make([]map[string]interface{}, len(schema.Columns))
	for i, col := range schema.Columns {
		colMap := map[string]interface{}{
			"name":     col.Name,
			"type":     string(col.ColumnType()),
			"id":       col.IsIdentity(),
			"for_each": col.IsForEach(),
		}
		if col.MinValue != nil {
			colMap["min"] = *col.MinValue
		}
		if col.MaxValue != nil {
			colMap["max"] = *col.MaxValue
		}
		if col.Length != nil {
			colMap["length"] = *col.Length
		}
		if len(col.Choices) > 0 {
			choices := make([]string, len(col.Choices))
			for j, c := range col.Choices {
				choices[j] = fmt.Sprint(c)
			}
			colMap["choices"] = choices
		}
		if col.LookupFile != "" {
			colMap["lookup"] = map[string]interface{}{
				"file":      col.LookupFile,
				"column":    col.LookupCol,
				"delimiter": col.LookupDelimiter,
			}
		}
		if col.FakerKind != "" {
			colMap["faker"] = col.FakerKind
		}
		columns[i] = colMap
	}

	result := map[string]interface{}{
		"columns":             columns,
		"column_delimiter":    schema.ColumnDelimiter,
		"max_row_count":       schema.RowCap(),
		"tentative_file_size": schema.TargetSize(),
	}
	if schema.Name != "" {
		result["name"] = schema.Name
	}
	return result
}
