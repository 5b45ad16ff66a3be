package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/raulgonca/projectsync/errs"
	"github.com/raulgonca/projectsync/logging"
	"github.com/raulgonca/projectsync/models"
	"github.com/raulgonca/projectsync/repositories"
)

// MaxImportSize caps client CSV uploads at 1 MB.
const MaxImportSize = 1024 * 1024

// csvHeaderSynonyms maps accepted header spellings to logical fields. The
// exports of the old system used Spanish headers, so both languages are
// accepted, case-insensitively.
var csvHeaderSynonyms = map[string]string{
	"nombre":             "name",
	"name":               "name",
	"cif":                "cif",
	"c.i.f":              "cif",
	"taxid":              "cif",
	"tax_id":             "cif",
	"email":              "email",
	"correo":             "email",
	"correo electrónico": "email",
	"e-mail":             "email",
	"phone":              "phone",
	"teléfono":           "phone",
	"telefono":           "phone",
	"web":                "web",
	"website":            "web",
	"sitio web":          "web",
	"pagina web":         "web",
	"página web":         "web",
}

type ImportResult struct {
	Imported   int      `json:"importados"`
	Skipped    int      `json:"omitidos"`
	Errors     []string `json:"errores"`
	TotalLines int      `json:"total_lineas"`
}

type CSVService struct {
	Clients repositories.ClientRepository
}

func NewCSVService(clients repositories.ClientRepository) *CSVService {
	return &CSVService{Clients: clients}
}

// ImportClients bulk-creates clients from a CSV stream. Rows missing a
// mandatory value or repeating a CIF (already stored, or seen earlier in
// the same file) are skipped with a line-numbered error; the final insert
// of the remaining rows is atomic.
func (s *CSVService) ImportClients(src io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, errs.Validation("the file is empty or has no header row")
	}

	columns := map[string]int{}
	for i, col := range header {
		if field, ok := csvHeaderSynonyms[strings.ToLower(strings.TrimSpace(col))]; ok {
			if _, taken := columns[field]; !taken {
				columns[field] = i
			}
		}
	}

	var missing []string
	for _, required := range []string{"name", "cif"} {
		if _, ok := columns[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, errs.Validation("missing mandatory CSV columns: %s", strings.Join(missing, ", "))
	}

	result := &ImportResult{Errors: []string{}}
	var pending []*models.Client
	seenCIFs := map[string]bool{}
	lineNumber := 1 // header already consumed

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		lineNumber++
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Line %d: %v", lineNumber, err))
			result.Skipped++
			continue
		}

		name := cell(row, columns, "name")
		cif := cell(row, columns, "cif")
		if name == "" || cif == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("Line %d: missing mandatory fields (name or CIF)", lineNumber))
			result.Skipped++
			continue
		}

		if seenCIFs[cif] {
			result.Errors = append(result.Errors, fmt.Sprintf("Line %d: a client with CIF %s already exists", lineNumber, cif))
			result.Skipped++
			continue
		}
		if _, err := s.Clients.FindByCIF(cif); err == nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Line %d: a client with CIF %s already exists", lineNumber, cif))
			result.Skipped++
			continue
		} else if !errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, err
		}

		seenCIFs[cif] = true
		pending = append(pending, &models.Client{
			Name:  name,
			CIF:   cif,
			Email: cell(row, columns, "email"),
			Phone: cell(row, columns, "phone"),
			Web:   cell(row, columns, "web"),
		})
		result.Imported++
	}
	result.TotalLines = lineNumber - 1

	if err := s.Clients.CreateBatch(pending); err != nil {
		// Distinct from row-level problems: the whole batch was rolled back.
		return nil, fmt.Errorf("failed to save imported clients: %w", err)
	}

	logging.Logger.Infof("Event ID: CSV_IMPORT_DONE, Description: %d clients imported, %d skipped", result.Imported, result.Skipped)
	return result, nil
}

// ExportClients streams every client as CSV, header first.
func (s *CSVService) ExportClients(dst io.Writer) error {
	clients, err := s.Clients.FindAll()
	if err != nil {
		return err
	}
	writer := csv.NewWriter(dst)
	if err := writer.Write([]string{"ID", "Nombre", "CIF", "Email", "Teléfono", "Web"}); err != nil {
		return err
	}
	for _, client := range clients {
		record := []string{
			strconv.FormatUint(uint64(client.ID), 10),
			client.Name,
			client.CIF,
			client.Email,
			client.Phone,
			client.Web,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func cell(row []string, columns map[string]int, field string) string {
	idx, ok := columns[field]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
