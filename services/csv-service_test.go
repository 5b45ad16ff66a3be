package services

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/raulgonca/projectsync/errs"
	"github.com/raulgonca/projectsync/models"
)

func TestImportClients(t *testing.T) {
	clients := newFakeClientRepo()
	service := NewCSVService(clients)

	csv := strings.Join([]string{
		"Nombre,CIF,Email,Teléfono,Web",
		"Acme,A111,acme@example.com,600111222,https://acme.example",
		"Globex,B222,,,",
	}, "\n")

	result, err := service.ImportClients(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ImportClients: %v", err)
	}
	if result.Imported != 2 || result.Skipped != 0 || result.TotalLines != 2 {
		t.Errorf("result = %+v, want 2 imported out of 2 lines", result)
	}

	stored, _ := clients.FindByCIF("A111")
	if stored.Name != "Acme" || stored.Email != "acme@example.com" {
		t.Errorf("stored client mismatch: %+v", stored)
	}
}

func TestImportClientsSkipsBadRows(t *testing.T) {
	clients := newFakeClientRepo()
	clients.Create(&models.Client{Name: "Existing", CIF: "OLD1"})
	service := NewCSVService(clients)

	csv := strings.Join([]string{
		"name,cif",
		"Acme,A111",
		"NoCIF,",
		"Existing again,OLD1",
		"Acme twin,A111",
	}, "\n")

	result, err := service.ImportClients(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ImportClients: %v", err)
	}
	if result.Imported != 1 || result.Skipped != 3 || result.TotalLines != 4 {
		t.Fatalf("result = %+v, want 1 imported and 3 skipped out of 4 lines", result)
	}

	// Line numbers count the header as line 1.
	wantErrors := []string{
		"Line 3: missing mandatory fields (name or CIF)",
		"Line 4: a client with CIF OLD1 already exists",
		"Line 5: a client with CIF A111 already exists",
	}
	if len(result.Errors) != len(wantErrors) {
		t.Fatalf("errors = %v, want %d entries", result.Errors, len(wantErrors))
	}
	for i, want := range wantErrors {
		if result.Errors[i] != want {
			t.Errorf("error[%d] = %q, want %q", i, result.Errors[i], want)
		}
	}
}

func TestImportClientsAcceptsHeaderSynonyms(t *testing.T) {
	clients := newFakeClientRepo()
	service := NewCSVService(clients)

	csv := strings.Join([]string{
		"NAME,TaxID,Correo,Telefono,Sitio Web",
		"Acme,A111,acme@example.com,600111222,https://acme.example",
	}, "\n")

	result, err := service.ImportClients(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ImportClients: %v", err)
	}
	if result.Imported != 1 {
		t.Fatalf("result = %+v, want 1 imported", result)
	}
	stored, _ := clients.FindByCIF("A111")
	if stored.Phone != "600111222" || stored.Web != "https://acme.example" {
		t.Errorf("synonym columns not mapped: %+v", stored)
	}
}

func TestImportClientsRejectsMissingColumns(t *testing.T) {
	service := NewCSVService(newFakeClientRepo())

	_, err := service.ImportClients(strings.NewReader("name,email\nAcme,a@example.com\n"))
	if !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("missing cif column should be a validation error, got %v", err)
	}

	_, err = service.ImportClients(strings.NewReader(""))
	if !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("empty file should be a validation error, got %v", err)
	}
}

func TestExportClients(t *testing.T) {
	clients := newFakeClientRepo()
	clients.Create(&models.Client{Name: "Acme", CIF: "A111", Email: "acme@example.com"})
	clients.Create(&models.Client{Name: "Globex", CIF: "B222", Phone: "911222333"})
	service := NewCSVService(clients)

	var buf bytes.Buffer
	if err := service.ExportClients(&buf); err != nil {
		t.Fatalf("ExportClients: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("export has %d lines, want header plus 2 rows", len(lines))
	}
	if lines[0] != "ID,Nombre,CIF,Email,Teléfono,Web" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "1,Acme,A111,acme@example.com,," {
		t.Errorf("row = %q", lines[1])
	}
	if lines[2] != "2,Globex,B222,,911222333," {
		t.Errorf("row = %q", lines[2])
	}
}
