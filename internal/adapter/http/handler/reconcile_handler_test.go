package handler_test

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/scaap/striperecon/internal/adapter/export"
	"github.com/scaap/striperecon/internal/adapter/http/dto"
	"github.com/scaap/striperecon/internal/adapter/http/handler"
	"github.com/scaap/striperecon/internal/usecase"
)

type stubIDGenerator struct{ id string }

func (g *stubIDGenerator) Generate() string { return g.id }

func newTestHandler() *handler.ReconcileHandler {
	uc := usecase.NewReconcileUseCase(&stubIDGenerator{id: "run-1"}, zerolog.Nop())
	return handler.NewReconcileHandler(uc, nil, nil, zerolog.Nop(), 8<<20)
}

func registrantSheet(t *testing.T, rows [][]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

type uploads map[string][]byte

func multipartRequest(t *testing.T, target string, files uploads) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for field, content := range files {
		part, err := w.CreateFormFile(field, field)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func baseUploads(t *testing.T) uploads {
	t.Helper()

	return uploads{
		handler.FieldAttendees: registrantSheet(t, [][]any{
			{"Conf #", "Attendee Category"},
			{"10234", "Member"},
			{"10235", "Member"},
		}),
		handler.FieldExhibitors: registrantSheet(t, [][]any{
			{"Conf #", "Attendee Category"},
			{"20001", "Exhibitor"},
		}),
		handler.FieldPayments: []byte(
			"AttendeeID (Metadata),Amount,Captured,Transfer\n" +
				"10234,100.00,true,tr_1\n" +
				"10235,50.00,true,tr_1\n"),
		handler.FieldPayouts: []byte(
			"ID,Amount,Arrival Date (UTC)\n" +
				"tr_1,145.00,2024-05-03\n"),
		handler.FieldBalanceHistory: []byte(
			"Transfer,Type,Amount,Fee\n" +
				"tr_1,charge,100.00,2.50\n" +
				"tr_1,charge,50.00,2.50\n"),
		handler.FieldLedger: []byte("Transfer\n"),
	}
}

func TestReconcileHandler_JSON(t *testing.T) {
	h := newTestHandler()

	req := multipartRequest(t, "/api/v1/reconcile?format=json", baseUploads(t))
	rr := httptest.NewRecorder()
	h.Run(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp dto.ReconcileResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

	require.Equal(t, "run-1", resp.RunID)
	require.Len(t, resp.Journal, 3)
	require.Equal(t, []string{"tr_1"}, resp.Ledger)
	require.Empty(t, resp.Unmatched)
	require.Empty(t, resp.Deferred)

	require.Len(t, resp.Summary, 1)
	require.True(t, resp.Summary[0].Balanced)
	require.Equal(t, "150.00", resp.Summary[0].Gross)
	require.Equal(t, "5.00", resp.Summary[0].Fees)
}

func TestReconcileHandler_ZipBundle(t *testing.T) {
	h := newTestHandler()

	req := multipartRequest(t, "/api/v1/reconcile", baseUploads(t))
	rr := httptest.NewRecorder()
	h.Run(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "application/zip", rr.Header().Get("Content-Type"))
	require.Contains(t, rr.Header().Get("Content-Disposition"), "attachment")

	zr, err := zip.NewReader(bytes.NewReader(rr.Body.Bytes()), int64(rr.Body.Len()))
	require.NoError(t, err)

	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	require.ElementsMatch(t, []string{export.WorkbookName, export.LedgerName}, names)
}

func TestReconcileHandler_MissingInput(t *testing.T) {
	h := newTestHandler()

	files := baseUploads(t)
	delete(files, handler.FieldPayments)

	req := multipartRequest(t, "/api/v1/reconcile", files)
	rr := httptest.NewRecorder()
	h.Run(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Contains(t, resp.Message, "payments")
}

func TestReconcileHandler_MissingColumn(t *testing.T) {
	h := newTestHandler()

	files := baseUploads(t)
	files[handler.FieldPayouts] = []byte("ID,Amount\ntr_1,145.00\n")

	req := multipartRequest(t, "/api/v1/reconcile", files)
	rr := httptest.NewRecorder()
	h.Run(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Contains(t, resp.Message, "arrival_date_(utc)")
}

func TestReconcileHandler_NoSharedLedgerRequiresUpload(t *testing.T) {
	h := newTestHandler()

	files := baseUploads(t)
	delete(files, handler.FieldLedger)

	req := multipartRequest(t, "/api/v1/reconcile", files)
	rr := httptest.NewRecorder()
	h.Run(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
}
