package controller

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/iyhunko/product-catalog/internal/media"
	"github.com/iyhunko/product-catalog/internal/model"
	"github.com/iyhunko/product-catalog/internal/service"
)

const (
	msgNotAString  = "Not a valid string."
	msgNotAFile    = "The submitted data was not a file. Check the encoding type on the form."
	msgInvalidJSON = "JSON parse error - %s"
)

// nullable lists the JSON fields where null clears the value.
var nullable = map[string]bool{
	model.FieldSaleStart: true,
	model.FieldSaleEnd:   true,
}

// errInvalidID is returned for product ids that are not positive integers.
var errInvalidID = errors.New("invalid product id")

func parseID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}

// bindProductInput reads a product payload sent as JSON, urlencoded or multipart form.
// Files are only accepted in multipart forms.
func bindProductInput(c *gin.Context) (service.ProductInput, error) {
	if c.ContentType() == binding.MIMEJSON {
		return bindJSONInput(c)
	}
	return bindFormInput(c)
}

func bindJSONInput(c *gin.Context) (service.ProductInput, error) {
	var in service.ProductInput

	var body map[string]json.RawMessage
	if err := c.ShouldBindJSON(&body); err != nil {
		if errors.Is(err, io.EOF) {
			return in, nil
		}
		return in, model.NewValidationError(model.FieldNonField, fmt.Sprintf(msgInvalidJSON, err.Error()))
	}

	errs := &model.ValidationError{}
	for field, dst := range map[string]**string{
		model.FieldName:        &in.Name,
		model.FieldDescription: &in.Description,
		model.FieldPrice:       &in.Price,
		model.FieldSaleStart:   &in.SaleStart,
		model.FieldSaleEnd:     &in.SaleEnd,
	} {
		raw, ok := body[field]
		if !ok {
			continue
		}
		if isJSONNull(raw) {
			if nullable[field] {
				empty := ""
				*dst = &empty
				continue
			}
			if in.Null == nil {
				in.Null = map[string]bool{}
			}
			in.Null[field] = true
			continue
		}
		value, err := jsonScalar(raw)
		if err != nil {
			errs.Add(field, msgNotAString)
			continue
		}
		*dst = &value
	}
	for _, field := range []string{model.FieldPhoto, model.FieldWarranty} {
		if raw, ok := body[field]; ok && !isJSONNull(raw) {
			errs.Add(field, msgNotAFile)
		}
	}

	return in, errs.OrNil()
}

func isJSONNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// jsonScalar returns a JSON string unquoted and a number as written.
func jsonScalar(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}

func bindFormInput(c *gin.Context) (service.ProductInput, error) {
	var in service.ProductInput

	for field, dst := range map[string]**string{
		model.FieldName:        &in.Name,
		model.FieldDescription: &in.Description,
		model.FieldPrice:       &in.Price,
		model.FieldSaleStart:   &in.SaleStart,
		model.FieldSaleEnd:     &in.SaleEnd,
	} {
		if value, ok := c.GetPostForm(field); ok {
			*dst = &value
		}
	}

	var err error
	if in.Photo, err = formUpload(c, model.FieldPhoto); err != nil {
		return in, err
	}
	if in.Warranty, err = formUpload(c, model.FieldWarranty); err != nil {
		return in, err
	}
	return in, nil
}

// formUpload returns the uploaded file of field, or nil when none was sent.
func formUpload(c *gin.Context, field string) (*media.Upload, error) {
	header, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s upload: %w", field, err)
	}
	content, err := readUpload(header)
	if err != nil {
		return nil, err
	}
	return &media.Upload{Filename: header.Filename, Content: content}, nil
}

func readUpload(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload %s: %w", header.Filename, err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload %s: %w", header.Filename, err)
	}
	return content, nil
}
