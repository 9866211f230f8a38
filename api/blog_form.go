package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rpupo63/blog-admin-backend/errs"
	"github.com/rpupo63/blog-admin-backend/models"
	"github.com/rpupo63/blog-admin-backend/services"
)

const maxUploadBytes = 10 << 20

var validate = validator.New(validator.WithRequiredStructEnabled())

// refList accepts tag and category references as strings or numbers.
type refList []string

func (l *refList) UnmarshalJSON(data []byte) error {
	var raw []interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(refList, 0, len(raw))
	for _, v := range raw {
		switch ref := v.(type) {
		case string:
			out = append(out, ref)
		case float64:
			out = append(out, strconv.FormatFloat(ref, 'f', -1, 64))
		default:
			return fmt.Errorf("unsupported reference %v", v)
		}
	}
	*l = out
	return nil
}

type blogForm struct {
	Name            string  `json:"name" validate:"required,max=191"`
	PublishDatetime string  `json:"publish_datetime"`
	Status          string  `json:"status" validate:"omitempty,oneof=Published Draft InActive Scheduled"`
	Content         string  `json:"content" validate:"required"`
	MetaTitle       *string `json:"meta_title" validate:"omitempty,max=191"`
	CannonicalLink  *string `json:"cannonical_link" validate:"omitempty,max=191"`
	MetaKeywords    *string `json:"meta_keywords" validate:"omitempty,max=191"`
	MetaDescription *string `json:"meta_description"`
	Tags            refList `json:"tags" validate:"dive,max=191"`
	Categories      refList `json:"categories" validate:"dive,max=191"`

	image *services.Upload
	extra map[string]interface{}
}

var knownFormFields = map[string]bool{
	"name": true, "publish_datetime": true, "status": true, "content": true,
	"meta_title": true, "cannonical_link": true, "meta_keywords": true, "meta_description": true,
	"tags": true, "tags[]": true, "categories": true, "categories[]": true, "featured_image": true,
}

// parseBlogForm reads a multipart or JSON blog payload. Unknown scalar fields are kept as extras.
func parseBlogForm(w http.ResponseWriter, r *http.Request) (*blogForm, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	var form *blogForm
	var err error
	switch mediaType {
	case "multipart/form-data":
		form, err = parseMultipartBlogForm(w, r)
	case "application/json":
		form, err = parseJSONBlogForm(w, r)
	default:
		return nil, errs.NewUnsupportedMediaTypeError(mediaType, []string{"multipart/form-data", "application/json"})
	}
	if err != nil {
		return nil, err
	}

	if err := validate.Struct(form); err != nil {
		return nil, validationError(err)
	}
	return form, nil
}

func parseMultipartBlogForm(w http.ResponseWriter, r *http.Request) (*blogForm, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, errs.NewMaxBodySizeExceededError(maxUploadBytes)
		}
		return nil, errs.NewMalformedPayloadError("multipart", err)
	}

	values := r.MultipartForm.Value
	first := func(key string) string {
		if v := values[key]; len(v) > 0 {
			return v[0]
		}
		return ""
	}
	optional := func(key string) *string {
		if v, ok := values[key]; ok && len(v) > 0 {
			return &v[0]
		}
		return nil
	}

	form := &blogForm{
		Name:            first("name"),
		PublishDatetime: first("publish_datetime"),
		Status:          first("status"),
		Content:         first("content"),
		MetaTitle:       optional("meta_title"),
		CannonicalLink:  optional("cannonical_link"),
		MetaKeywords:    optional("meta_keywords"),
		MetaDescription: optional("meta_description"),
		Tags:            append(refList{}, append(values["tags"], values["tags[]"]...)...),
		Categories:      append(refList{}, append(values["categories"], values["categories[]"]...)...),
	}

	for key, v := range values {
		if knownFormFields[key] || len(v) == 0 {
			continue
		}
		if form.extra == nil {
			form.extra = make(map[string]interface{})
		}
		form.extra[key] = v[0]
	}

	if files := r.MultipartForm.File["featured_image"]; len(files) > 0 {
		f, err := files[0].Open()
		if err != nil {
			return nil, errs.NewMalformedPayloadError("featured_image", err)
		}
		content, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, errs.NewMalformedPayloadError("featured_image", err)
		}
		form.image = &services.Upload{Filename: files[0].Filename, Body: bytes.NewReader(content)}
	}
	return form, nil
}

func parseJSONBlogForm(w http.ResponseWriter, r *http.Request) (*blogForm, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUploadBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, errs.NewMaxBodySizeExceededError(maxUploadBytes)
		}
		return nil, errs.NewMalformedPayloadError("json", err)
	}

	var form blogForm
	if err := json.Unmarshal(body, &form); err != nil {
		return nil, errs.NewInvalidJSONError(err)
	}

	var all map[string]interface{}
	if err := json.Unmarshal(body, &all); err != nil {
		return nil, errs.NewInvalidJSONError(err)
	}
	for key, v := range all {
		if knownFormFields[key] {
			continue
		}
		switch v.(type) {
		case string, float64, bool:
			if form.extra == nil {
				form.extra = make(map[string]interface{})
			}
			form.extra[key] = v
		}
	}
	return &form, nil
}

func (f *blogForm) input() services.BlogInput {
	return services.BlogInput{
		Name:            f.Name,
		PublishDatetime: f.PublishDatetime,
		Status:          models.BlogStatus(f.Status),
		Content:         f.Content,
		MetaTitle:       f.MetaTitle,
		CannonicalLink:  f.CannonicalLink,
		MetaKeywords:    f.MetaKeywords,
		MetaDescription: f.MetaDescription,
		Tags:            f.Tags,
		Categories:      f.Categories,
		Image:           f.image,
		Extra:           f.extra,
	}
}

// validationError reports the first failed field.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return errs.NewBadRequestError(err.Error())
	}

	fe := verrs[0]
	field := toSnakeCase(fe.Field())
	if fe.Tag() == "required" {
		return errs.NewMissingRequiredFieldError(field)
	}
	reason := fe.Tag()
	if fe.Param() != "" {
		reason = fmt.Sprintf("%s=%s", fe.Tag(), fe.Param())
	}
	return errs.NewInvalidFieldError(field, reason)
}

func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
