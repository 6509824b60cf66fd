package logoapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"logoobjects/internal/core/apperror"
)

// maxErrorBody caps how much of an error response is kept in messages.
const maxErrorBody = 512

// acceptEncoding is advertised on every request. Setting it ourselves turns
// off net/http's transparent gzip handling, so decodeBody must cover both.
const acceptEncoding = "gzip, zstd"

// decodeBody wraps the response body with the decompressor its
// Content-Encoding names.
func decodeBody(resp *http.Response) (io.ReadCloser, error) {
	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "", "identity":
		return resp.Body, nil
	case "gzip":
		zr, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("open gzip body: %w", err)
		}
		return zr, nil
	case "zstd":
		zr, err := zstd.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("open zstd body: %w", err)
		}
		return zr.IOReadCloser(), nil
	default:
		return nil, fmt.Errorf("unsupported content encoding %q", resp.Header.Get("Content-Encoding"))
	}
}

// encodeBody serializes a request payload. Raw string and []byte bodies are
// sent as is.
func encodeBody(body any) ([]byte, string, error) {
	switch v := body.(type) {
	case nil:
		return nil, "", nil
	case []byte:
		return v, "application/octet-stream", nil
	case string:
		return []byte(v), "text/plain; charset=utf-8", nil
	case json.RawMessage:
		return v, "application/json", nil
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, "", apperror.NewValidation("request body is not serializable").WithCause(err)
	}
	return data, "application/json", nil
}

// decodeInto stores a successful response in out. *string and *[]byte
// receive the raw body, anything else is JSON-decoded. An empty body leaves
// out untouched.
func decodeInto(r io.Reader, out any) error {
	if out == nil {
		_, err := io.Copy(io.Discard, r)
		return err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	switch v := out.(type) {
	case *[]byte:
		*v = data
		return nil
	case *string:
		*v = string(data)
		return nil
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	return json.Unmarshal(data, out)
}

// remoteError is the union of error shapes the API returns: the ASP.NET
// style {"Message": ...}, OAuth {"error", "error_description"} and a plain
// {"message": ...}.
type remoteError struct {
	Message          string          `json:"Message"`
	MessageLower     string          `json:"message"`
	Error            string          `json:"error"`
	ErrorDescription string          `json:"error_description"`
	ModelState       json.RawMessage `json:"ModelState"`
}

func (e remoteError) text() string {
	for _, s := range []string{e.ErrorDescription, e.Message, e.MessageLower, e.Error} {
		if s != "" {
			return s
		}
	}
	return ""
}

// readRemoteError builds an AppError from a non-2xx response.
func readRemoteError(resp *http.Response) *apperror.AppError {
	body, err := decodeBody(resp)
	if err != nil {
		return apperror.NewRemote(resp.StatusCode, "")
	}
	defer body.Close()

	data, _ := io.ReadAll(io.LimitReader(body, 64*1024))
	appErr := apperror.NewRemote(resp.StatusCode, remoteMessage(data))

	var re remoteError
	if json.Unmarshal(data, &re) == nil && len(re.ModelState) > 0 {
		var state map[string][]string
		if json.Unmarshal(re.ModelState, &state) == nil {
			appErr.WithDetail("model_state", state)
		}
	}
	return appErr
}

func remoteMessage(data []byte) string {
	var re remoteError
	if json.Unmarshal(data, &re) == nil {
		if msg := re.text(); msg != "" {
			return msg
		}
	}

	msg := strings.TrimSpace(string(data))
	if len(msg) > maxErrorBody {
		msg = msg[:maxErrorBody] + "..."
	}
	return msg
}
