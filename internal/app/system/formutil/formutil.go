// Package formutil decodes request bodies into input structs.
//
// Clients may send JSON or application/x-www-form-urlencoded. Both land in
// the same struct, so input types carry a form tag next to each json tag:
//
//	type createInput struct {
//		OrganizationName string  `json:"organization_name" form:"organization_name"`
//		Email            *string `json:"email" form:"email"`
//	}
//
// accepts {"organization_name":"Acme"} and organization_name=Acme alike.
// A pointer field stays nil when its key is absent.
package formutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/dalemusser/orgadmin/internal/app/system/apperr"
	"github.com/go-playground/form/v4"
)

// MaxBodyBytes caps the size of a decoded body.
const MaxBodyBytes = 1 << 20

// InvalidBodyMessage is reported for bodies that cannot be decoded.
const InvalidBodyMessage = "Invalid request body"

// decoder is safe for concurrent use and caches struct metadata.
var decoder = newDecoder()

func newDecoder() *form.Decoder {
	d := form.NewDecoder()
	d.SetTagName("form")
	return d
}

// Decode fills dst, a pointer to a struct, from r's body. An empty body
// leaves dst untouched so that validation reports the missing fields.
func Decode(w http.ResponseWriter, r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt == "application/x-www-form-urlencoded" {
		if err := r.ParseForm(); err != nil {
			return apperr.Wrap(apperr.KindValidation, InvalidBodyMessage, err)
		}
		return fromForm(r, dst)
	}

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return apperr.Wrap(apperr.KindValidation, InvalidBodyMessage, err)
	}
	return nil
}

func fromForm(r *http.Request, dst any) error {
	var invalid *form.InvalidDecoderError
	if err := decoder.Decode(dst, r.PostForm); err != nil {
		if errors.As(err, &invalid) {
			return fmt.Errorf("formutil: decode form into %T: %w", dst, err)
		}
		return apperr.Wrap(apperr.KindValidation, InvalidBodyMessage, err)
	}
	return nil
}
