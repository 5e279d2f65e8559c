// Package report turns a vehicle record into a PDF artifact in S3.
package report

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/tidwall/gjson"

	"github.com/CarlosDanielS3/despachazap-lambdas/internal/platestore"
)

// Uploader is an abstraction over the S3 client
type Uploader interface {
	PutObject(*s3.PutObjectInput) (*s3.PutObjectOutput, error)
}

// Generator produces report artifacts
type Generator struct {
	s3     Uploader
	bucket string
	region string
	render func([]byte) ([]byte, error)
}

// New returns a new Generator
func New(up Uploader, bucket, region string) *Generator {
	return &Generator{s3: up, bucket: bucket, region: region, render: renderPDF}
}

func renderPDF(layout []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := api.Create(nil, bytes.NewReader(layout), &buf, model.NewDefaultConfiguration()); err != nil {
		return nil, fmt.Errorf("could not render PDF: %v", err)
	}
	return buf.Bytes(), nil
}

// Generate builds the report PDF for a vehicle record, uploads it and returns
// the object URL. The URL is derived after PutObject has returned, so no
// consistency wait is needed before handing it out.
func (g *Generator) Generate(rec *platestore.Record) (string, error) {

	layout, err := buildLayout(rec)
	if err != nil {
		return "", err
	}

	pdf, err := g.render(layout)
	if err != nil {
		return "", err
	}

	name := objectName(rec)
	input := &s3.PutObjectInput{
		Bucket:      aws.String(g.bucket),
		Key:         aws.String(name),
		Body:        bytes.NewReader(pdf),
		ContentType: aws.String("application/pdf"),
	}

	if _, err := g.s3.PutObject(input); err != nil {
		return "", fmt.Errorf("could not upload report: %v", err)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", g.bucket, g.region, url.PathEscape(name)), nil
}

func objectName(rec *platestore.Record) string {

	vehicle := gjson.Get(rec.Doc, "MODELO").String()
	if vehicle == "" {
		vehicle = "desconhecido"
	}
	brand := gjson.Get(rec.Doc, "MARCA").String()
	if brand == "" {
		brand = "desconhecido"
	}

	return fmt.Sprintf("%s %s - %s.pdf", strings.ToLower(vehicle), strings.ToLower(brand), rec.Plate)
}
