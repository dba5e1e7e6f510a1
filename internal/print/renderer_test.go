package print

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-erp/meridian-erp/internal/platform/erpapi"
)

type mockSource struct {
	doc        *erpapi.ReturnDocument
	company    *erpapi.CompanyProfile
	docErr     error
	companyErr error
	fetches    int
}

func (m *mockSource) GetReturn(ctx context.Context, headerID int64) (*erpapi.ReturnDocument, error) {
	m.fetches++
	if m.docErr != nil {
		return nil, m.docErr
	}
	return m.doc, nil
}

func (m *mockSource) GetCompanyProfile(ctx context.Context) (*erpapi.CompanyProfile, error) {
	if m.companyErr != nil {
		return nil, m.companyErr
	}
	return m.company, nil
}

func testSource() *mockSource {
	return &mockSource{
		doc: &erpapi.ReturnDocument{
			HeaderID:     501,
			ReturnNumber: "SR-0001",
			ReturnDate:   time.Date(2026, 8, 14, 0, 0, 0, 0, time.UTC),
			CustomerName: "Sharma Traders",
			Items: []erpapi.ReturnDocumentLine{
				{ProductName: "Cement Bag", Quantity: 20, Rate: 600, TaxPercent: 5, Amount: 12600},
				{ProductName: "Steel Rod", Quantity: 25, Rate: 85, TaxPercent: 5, Amount: 2231.25},
			},
			SubTotal:   14125,
			TotalTax:   706.25,
			GrandTotal: 14831.25,
		},
		company: &erpapi.CompanyProfile{
			Name:         "Meridian Building Supplies",
			AddressLine1: "14 Industrial Estate",
			City:         "Pune",
			TaxID:        "27AAACM1234A1Z5",
		},
	}
}

func TestRenderCreditNote(t *testing.T) {
	source := testSource()
	svc, err := NewService(source, nil)
	require.NoError(t, err)

	html, err := svc.RenderCreditNote(context.Background(), 501)
	require.NoError(t, err)
	out := string(html)

	assert.Contains(t, out, "Meridian Building Supplies")
	assert.Contains(t, out, "SR-0001")
	assert.Contains(t, out, "Sharma Traders")
	assert.Contains(t, out, "Cement Bag")
	assert.Contains(t, out, "Steel Rod")
	assert.Contains(t, out, "14 Aug 2026")
	// money grouped in the Indian style, two decimals
	assert.Contains(t, out, "14,831.25")
	assert.Contains(t, out, "2,231.25")
	// grand total in words
	assert.Contains(t, out, "Fourteen Thousand Eight Hundred Thirty One and Twenty Five Paise only")
}

func TestRenderCreditNoteRefetchesPerRender(t *testing.T) {
	source := testSource()
	svc, err := NewService(source, nil)
	require.NoError(t, err)

	_, err = svc.RenderCreditNote(context.Background(), 501)
	require.NoError(t, err)
	_, err = svc.RenderCreditNote(context.Background(), 501)
	require.NoError(t, err)
	assert.Equal(t, 2, source.fetches)
}

func TestRenderCreditNotePropagatesFetchErrors(t *testing.T) {
	source := testSource()
	source.docErr = errors.New("upstream down")
	svc, err := NewService(source, nil)
	require.NoError(t, err)

	_, err = svc.RenderCreditNote(context.Background(), 501)
	assert.Error(t, err)

	source = testSource()
	source.companyErr = errors.New("profile missing")
	svc, err = NewService(source, nil)
	require.NoError(t, err)
	_, err = svc.RenderCreditNote(context.Background(), 501)
	assert.Error(t, err)
}

func TestRenderCreditNotePDFWithoutConverter(t *testing.T) {
	svc, err := NewService(testSource(), nil)
	require.NoError(t, err)
	_, err = svc.RenderCreditNotePDF(context.Background(), 501)
	assert.Error(t, err)
}
