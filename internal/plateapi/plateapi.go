// Package plateapi handles the plate validation and retrieval endpoints.
package plateapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/aws/aws-lambda-go/events"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/CarlosDanielS3/despachazap-lambdas/internal/plates"
	"github.com/CarlosDanielS3/despachazap-lambdas/internal/platestore"
	"github.com/CarlosDanielS3/despachazap-lambdas/internal/response"
)

// Store reads and writes cached vehicle records
type Store interface {
	Get(plate string) (*platestore.Record, error)
	Put(rec *platestore.Record) error
}

// Registry looks up vehicle records at the external plate API
type Registry interface {
	Lookup(plate string) (*platestore.Record, error)
}

// Generator renders the report artifact for a vehicle record
type Generator interface {
	Generate(rec *platestore.Record) (string, error)
}

// API serves plate requests
type API struct {
	store    Store
	registry Registry
	log      *zap.Logger
}

// New returns a new API
func New(store Store, registry Registry, log *zap.Logger) *API {
	return &API{store: store, registry: registry, log: log}
}

// HandleValidate answers whether a plate has a valid format.
func HandleValidate(request *events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {

	plate := gjson.Get(request.Body, "plate").String()

	return response.Success(struct {
		IsValidPlate string `json:"isValidPlate"`
	}{IsValidPlate: strconv.FormatBool(plates.IsValid(plate))})
}

// HandleRetrieve returns the registry document for a plate, serving from the
// store and falling back to the external API with a write-through.
func (a *API) HandleRetrieve(request *events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {

	plate := plates.Normalize(gjson.Get(request.Body, "plate").String())
	if !plates.IsValid(plate) {
		return response.Error(http.StatusBadRequest, "invalid plate")
	}

	cached, err := a.store.Get(plate)
	if err != nil {
		a.log.Error("could not read plate store", zap.String("plate", plate), zap.Error(err))
		return response.Error(http.StatusInternalServerError, "failed to retrieve plate data")
	}
	if cached != nil {
		return response.Success(json.RawMessage(cached.Doc))
	}

	rec, err := a.registry.Lookup(plate)
	if err != nil {
		a.log.Error("could not look up plate", zap.String("plate", plate), zap.Error(err))
		return response.Error(http.StatusBadGateway, "failed to retrieve plate data")
	}

	if err := a.store.Put(rec); err != nil {
		a.log.Error("could not cache plate record", zap.String("plate", plate), zap.Error(err))
		return response.Error(http.StatusInternalServerError, "failed to retrieve plate data")
	}

	return response.Success(json.RawMessage(rec.Doc))
}

// Preview serves the pre-purchase subset of a cached vehicle record. It reads
// the store only; a miss tells the caller to go through the full retrieve
// endpoint first.
type Preview struct {
	store Store
	log   *zap.Logger
}

// NewPreview returns a new Preview
func NewPreview(store Store, log *zap.Logger) *Preview {
	return &Preview{store: store, log: log}
}

// HandlePreview returns the marca/modelo/ano/cor/placa subset for a plate.
func (p *Preview) HandlePreview(request *events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {

	plate := plates.Normalize(gjson.Get(request.Body, "plate").String())
	if !plates.IsValid(plate) {
		return response.Error(http.StatusBadRequest, "invalid plate")
	}

	rec, err := p.store.Get(plate)
	if err != nil {
		p.log.Error("could not read plate store", zap.String("plate", plate), zap.Error(err))
		return response.Error(http.StatusInternalServerError, "failed to retrieve plate preview")
	}
	if rec == nil {
		return response.Error(http.StatusNotFound, "Plate data not found. Please use the full retrieve endpoint first.")
	}

	return response.Success(struct {
		Marca  string `json:"marca"`
		Modelo string `json:"modelo"`
		Ano    string `json:"ano"`
		Cor    string `json:"cor"`
		Placa  string `json:"placa"`
	}{
		Marca:  firstOf(rec.Doc, "MARCA", "marca", "fipe.dados.0.texto_marca"),
		Modelo: firstOf(rec.Doc, "MODELO", "modelo"),
		Ano:    firstOf(rec.Doc, "ano", "extra.ano_fabricacao"),
		Cor:    firstOf(rec.Doc, "cor", "extra.cor_veiculo"),
		Placa:  rec.Plate,
	})
}

// firstOf walks a gjson fallback chain over the registry document.
func firstOf(doc string, paths ...string) string {
	for _, p := range paths {
		if s := gjson.Get(doc, p).String(); s != "" {
			return s
		}
	}
	return ""
}

// PDF serves on-demand report generation for a cached vehicle record.
type PDF struct {
	store Store
	gen   Generator
	log   *zap.Logger
}

// NewPDF returns a new PDF
func NewPDF(store Store, gen Generator, log *zap.Logger) *PDF {
	return &PDF{store: store, gen: gen, log: log}
}

// HandleGenerate builds the report artifact for a plate and returns its URL.
func (p *PDF) HandleGenerate(request *events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {

	raw := gjson.Get(request.Body, "plate").String()
	if raw == "" {
		return response.Error(http.StatusBadRequest, "plate is required")
	}
	plate := plates.Normalize(raw)

	rec, err := p.store.Get(plate)
	if err != nil {
		p.log.Error("could not read plate store", zap.String("plate", plate), zap.Error(err))
		return response.Error(http.StatusInternalServerError, "failed to generate PDF")
	}
	if rec == nil {
		return response.Error(http.StatusNotFound, "no vehicle record for plate: "+plate)
	}

	pdfURL, err := p.gen.Generate(rec)
	if err != nil {
		p.log.Error("could not generate report", zap.String("plate", plate), zap.Error(err))
		return response.Error(http.StatusInternalServerError, "failed to generate PDF")
	}

	return response.Success(struct {
		Plate  string `json:"plate"`
		PdfURL string `json:"pdfUrl"`
	}{Plate: plate, PdfURL: pdfURL})
}
