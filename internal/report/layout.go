package report

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/CarlosDanielS3/despachazap-lambdas/internal/platestore"
)

const missingValue = "Não informado"

// field is one line of the report. Paths is an ordered fallback chain of
// gjson paths over the registry document; the first non-empty value wins.
type field struct {
	label string
	paths []string
	x, y  float64
}

// The registry API changed shape over time, so most fields fall back from the
// newer extra.* block to the older top-level names.
var vehicleFields = []field{
	{label: "Modelo", paths: []string{"MODELO"}, x: 95, y: 120},
	{label: "SubModelo", paths: []string{"SUBMODELO"}, x: 95, y: 140},
	{label: "Versão", paths: []string{"VERSAO"}, x: 95, y: 160},
	{label: "Ano", paths: []string{"ano"}, x: 95, y: 180},
	{label: "Ano Modelo", paths: []string{"anoModelo"}, x: 320, y: 120},
	{label: "Chassi", paths: []string{"chassi"}, x: 320, y: 140},
	{label: "Cor", paths: []string{"cor"}, x: 320, y: 160},
	{label: "Data", paths: []string{"data"}, x: 320, y: 180},

	{label: "Ano Fabricação", paths: []string{"extra.ano_fabricacao", "ano"}, x: 95, y: 230},
	{label: "Ano Modelo", paths: []string{"extra.ano_modelo", "anoModelo"}, x: 95, y: 250},
	{label: "Câmbio", paths: []string{"extra.caixa_cambio"}, x: 95, y: 270},
	{label: "Chassi", paths: []string{"extra.chassi", "chassi"}, x: 95, y: 290},
	{label: "Situação Veículo", paths: []string{"extra.situacao_veiculo", "situacao"}, x: 95, y: 310},
	{label: "Carroceria", paths: []string{"extra.carroceria"}, x: 95, y: 330},
	{label: "Cilindradas", paths: []string{"extra.cilindradas"}, x: 95, y: 350},
	{label: "Combustível", paths: []string{"extra.combustivel", "fipe.dados.0.combustivel"}, x: 95, y: 370},
	{label: "Espécie", paths: []string{"extra.especie"}, x: 95, y: 390},
	{label: "Média Preço", paths: []string{"extra.media_preco", "fipe.dados.0.texto_valor"}, x: 95, y: 410},
	{label: "Motor", paths: []string{"extra.motor"}, x: 95, y: 430},
	{label: "Município", paths: []string{"extra.municipio", "municipio"}, x: 95, y: 450},
	{label: "Placa", paths: []string{"extra.placa", "placa"}, x: 95, y: 470},
	{label: "Placa Antiga", paths: []string{"extra.placa_modelo_antigo", "placa_alternativa"}, x: 320, y: 230},
	{label: "Quantidade Passageiro", paths: []string{"extra.quantidade_passageiro"}, x: 320, y: 250},
	{label: "Restrição 1", paths: []string{"extra.restricao_1", "situacao"}, x: 320, y: 270},
	{label: "Restrição 2", paths: []string{"extra.restricao_2", "situacao"}, x: 320, y: 290},
	{label: "Segmento", paths: []string{"extra.segmento"}, x: 320, y: 310},
	{label: "Tipo Veículo", paths: []string{"extra.tipo_veiculo"}, x: 320, y: 330},
	{label: "UF", paths: []string{"extra.uf"}, x: 320, y: 350},
	{label: "UF Placa", paths: []string{"extra.uf_placa"}, x: 320, y: 370},

	{label: "Marca", paths: []string{"fipe.dados.0.texto_marca"}, x: 95, y: 520},
	{label: "Código Fipe", paths: []string{"fipe.dados.0.codigo_fipe"}, x: 95, y: 540},
	{label: "Combustível", paths: []string{"fipe.dados.0.combustivel"}, x: 95, y: 560},
	{label: "Mês Referência", paths: []string{"fipe.dados.0.mes_referencia"}, x: 95, y: 580},
	{label: "Referência Fipe", paths: []string{"fipe.dados.0.referencia_fipe"}, x: 320, y: 520},
	{label: "Texto Modelo", paths: []string{"fipe.dados.0.texto_modelo"}, x: 320, y: 540},
	{label: "Texto Valor", paths: []string{"fipe.dados.0.texto_valor"}, x: 320, y: 560},
	{label: "Tipo Modelo", paths: []string{"fipe.dados.0.tipo_modelo"}, x: 320, y: 580},
}

// resolve walks a fallback chain over the registry document.
func resolve(doc string, paths []string) string {
	for _, p := range paths {
		v := gjson.Get(doc, p)
		if !v.Exists() {
			continue
		}
		if s := v.String(); s != "" {
			return s
		}
	}
	return missingValue
}

// pdfcpu create JSON
type pageText struct {
	Value     string    `json:"value"`
	Position  []float64 `json:"position"`
	Font      font      `json:"font"`
	FillColor string    `json:"fillColor,omitempty"`
}

type font struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

type layout struct {
	Paper  string          `json:"paper"`
	Origin string          `json:"origin"`
	Pages  map[string]page `json:"pages"`
}

type page struct {
	Content content `json:"content"`
}

type content struct {
	Text []pageText `json:"text"`
}

// buildLayout renders the report description consumed by pdfcpu.
func buildLayout(rec *platestore.Record) ([]byte, error) {

	texts := []pageText{
		{
			Value:     fmt.Sprintf("Resultado da consulta - %s", rec.Plate),
			Position:  []float64{95, 60},
			Font:      font{Name: "Times-Bold", Size: 24},
			FillColor: "#0550A2",
		},
	}

	for _, f := range vehicleFields {
		texts = append(texts, pageText{
			Value:    fmt.Sprintf("%s:  %s", f.label, resolve(rec.Doc, f.paths)),
			Position: []float64{f.x, f.y},
			Font:     font{Name: "Helvetica", Size: 10},
		})
	}

	l := layout{
		Paper:  "A4",
		Origin: "upperLeft",
		Pages:  map[string]page{"1": {Content: content{Text: texts}}},
	}

	out, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("could not marshal report layout: %v", err)
	}
	return out, nil
}
