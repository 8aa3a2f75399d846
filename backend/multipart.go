// Copyright © 2025 Deckreview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: backend/multipart.go
// Summary: Multipart encoding for application creation and deck uploads.

package backend

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"path/filepath"

	"github.com/framegrace/deckreview/validate"
)

func encodeForm(form *validate.NewApplication, deck *validate.Deck) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if form != nil {
		fields := [][2]string{
			{validate.FieldStartupName, form.StartupName},
			{validate.FieldContactName, form.ContactName},
			{validate.FieldContactEmail, form.ContactEmail},
			{validate.FieldWebsiteURL, form.WebsiteURL},
		}
		for _, f := range fields {
			if err := w.WriteField(f[0], f[1]); err != nil {
				return nil, "", err
			}
		}
	}
	if deck != nil {
		name := filepath.Base(deck.Name)
		if name == "." || name == "/" || name == "" {
			name = "deck.pdf"
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, validate.FieldFile, name))
		h.Set("Content-Type", validate.PDFContentType)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(deck.Data); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// DecodeForm reads a create-application form from a parsed multipart
// request. It is the inverse of the encoding the client sends.
func DecodeForm(mf *multipart.Form) (validate.NewApplication, error) {
	get := func(key string) string {
		if vs := mf.Value[key]; len(vs) > 0 {
			return vs[0]
		}
		return ""
	}
	form := validate.NewApplication{
		StartupName:  get(validate.FieldStartupName),
		ContactName:  get(validate.FieldContactName),
		ContactEmail: get(validate.FieldContactEmail),
		WebsiteURL:   get(validate.FieldWebsiteURL),
	}
	deck, err := DecodeDeck(mf)
	if err != nil {
		return form, err
	}
	form.Deck = deck
	return form, nil
}

// DecodeDeck reads the uploaded file part, if any. Reading stops one byte
// past the size limit so oversize files are still detected.
func DecodeDeck(mf *multipart.Form) (*validate.Deck, error) {
	files := mf.File[validate.FieldFile]
	if len(files) == 0 {
		return nil, nil
	}
	fh := files[0]
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, validate.MaxDeckSize+1))
	if err != nil {
		return nil, err
	}
	return &validate.Deck{Name: fh.Filename, Data: data}, nil
}
