package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"
)

const maxBodyBytes = 1 << 20

type envelope map[string]any

// writeJSON encodes data as the whole body; data is an envelope or a bare value such as a list.
func (app *application) writeJSON(w http.ResponseWriter, status int, data any, headers http.Header) error {
	body, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}
	body = append(body, '\n')

	for key, values := range headers {
		for _, value := range values {
			w.Header().Add(key, value)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)

	return nil
}

// parseJSON decodes exactly one JSON value into dst. Errors are phrased for the client.
func (app *application) parseJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return decodeError(err)
	}

	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("request body must only contain a single JSON value")
	}

	return nil
}

func decodeError(err error) error {
	var (
		syntaxError           *json.SyntaxError
		unmarshalTypeError    *json.UnmarshalTypeError
		invalidUnmarshalError *json.InvalidUnmarshalError
		maxBytesError         *http.MaxBytesError
	)

	switch {
	case errors.As(err, &syntaxError):
		return fmt.Errorf("request body contains badly-formed JSON (at character %d)", syntaxError.Offset)
	case errors.Is(err, io.ErrUnexpectedEOF):
		return errors.New("request body contains badly-formed JSON")
	case errors.As(err, &unmarshalTypeError) && unmarshalTypeError.Field != "":
		return fmt.Errorf("request body contains an invalid value for the %q field", unmarshalTypeError.Field)
	case errors.As(err, &unmarshalTypeError):
		return fmt.Errorf("request body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
	case errors.Is(err, io.EOF):
		return errors.New("request body must not be empty")
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		return fmt.Errorf("request body contains unknown field %s", strings.TrimPrefix(err.Error(), "json: unknown field "))
	case errors.As(err, &maxBytesError):
		return fmt.Errorf("request body must not be larger than %d bytes", maxBytesError.Limit)
	case errors.As(err, &invalidUnmarshalError):
		// dst was not a non-nil pointer: a programming error
		panic(err)
	default:
		return err
	}
}

// readIDParam parses a positive integer route parameter.
func (app *application) readIDParam(r *http.Request, key string) (int, error) {
	id, err := strconv.Atoi(httprouter.ParamsFromContext(r.Context()).ByName(key))
	if err != nil || id < 1 {
		return 0, errors.New("malformatted id")
	}

	return id, nil
}
