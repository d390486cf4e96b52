// Package errorgen renders internal/models/error_map.go from the error CSV.
package errorgen

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"fmt"
	"go/format"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig"
	"github.com/iancoleman/strcase"
)

//go:embed error_map.tmpl
var errorMapTemplate string

type (
	ErrorGen struct {
		ErrorMaps     []ErrorMap
		ErrorKeys     []ErrorKey
		ErrorMessages []ErrorMessage
		ErrorCodes    []ErrorCode
	}

	ErrorMap struct {
		Key     string
		Code    string
		Message string
	}

	ErrorKey struct {
		Key         string
		Description string
	}

	ErrorMessage struct {
		Key         string
		Description string
	}

	ErrorCode struct {
		Key         string
		Description string
	}
)

func identifier(prefix, s string) string {
	return prefix + strings.Join(strings.Fields(strcase.ToCamel(s)), "")
}

// Parse reads rows of key,code,message. The first row is a header. Codes and messages shared
// by several keys are declared once.
func Parse(r io.Reader) (ErrorGen, error) {
	lines, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return ErrorGen{}, fmt.Errorf("read csv: %w", err)
	}

	var (
		seenKey     = make(map[string]bool)
		seenCode    = make(map[string]bool)
		seenMessage = make(map[string]bool)
		data        ErrorGen
	)
	for i := 1; i < len(lines); i++ {
		if len(lines[i]) < 3 {
			return ErrorGen{}, fmt.Errorf("line %d: expected 3 columns, got %d", i+1, len(lines[i]))
		}
		key, code, message := lines[i][0], lines[i][1], lines[i][2]

		errKey := identifier("ErrKey", key)
		if seenKey[errKey] {
			return ErrorGen{}, fmt.Errorf("line %d: duplicate key %s", i+1, key)
		}
		seenKey[errKey] = true
		data.ErrorKeys = append(data.ErrorKeys, ErrorKey{Key: errKey, Description: key})

		errCode := "errCode" + code
		if !seenCode[errCode] {
			data.ErrorCodes = append(data.ErrorCodes, ErrorCode{Key: errCode, Description: code})
			seenCode[errCode] = true
		}

		errMessage := identifier("err", message)
		if !seenMessage[errMessage] {
			data.ErrorMessages = append(data.ErrorMessages, ErrorMessage{Key: errMessage, Description: message})
			seenMessage[errMessage] = true
		}

		data.ErrorMaps = append(data.ErrorMaps, ErrorMap{Key: errKey, Code: errCode, Message: errMessage})
	}

	return data, nil
}

// Render executes the template and gofmt-formats the result.
func Render(w io.Writer, data ErrorGen) error {
	tmpl, err := template.New("error_map").Funcs(sprig.TxtFuncMap()).Parse(errorMapTemplate)
	if err != nil {
		return fmt.Errorf("parse template: %w", err)
	}

	var processed bytes.Buffer
	if err := tmpl.Execute(&processed, data); err != nil {
		return fmt.Errorf("execute template: %w", err)
	}

	formatted, err := format.Source(processed.Bytes())
	if err != nil {
		return fmt.Errorf("format generated source: %w", err)
	}

	_, err = w.Write(formatted)
	return err
}

func GenerateErrorMapFromCSV(csvPath, outputPath string) error {
	f, err := os.Open(csvPath)
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := Parse(f)
	if err != nil {
		return err
	}

	var out bytes.Buffer
	if err := Render(&out, data); err != nil {
		return err
	}

	return os.WriteFile(outputPath, out.Bytes(), 0o644)
}
