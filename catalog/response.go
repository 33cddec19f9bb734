package catalog

import (
	"encoding/json"
	"net/http"
)

// Response is a framework neutral catalog response. Adapters copy it onto
// their native response type.
type Response struct {
	// Body is nil for HEAD.
	Body   []byte
	Header map[string]string
	Status int
}

// GetResponse renders the GET response for linkset served from origin.
func GetResponse(linkset Linkset, origin string) (Response, error) {
	body, err := json.Marshal(linkset)
	if err != nil {
		return Response{}, err
	}
	return Response{
		Body:   body,
		Header: catalogHeaders(origin),
		Status: http.StatusOK,
	}, nil
}

// HeadResponse renders the HEAD response for a catalog served from origin.
func HeadResponse(origin string) Response {
	return Response{
		Header: catalogHeaders(origin),
		Status: http.StatusOK,
	}
}

// LinkHeader returns the Link header value advertising the catalog URL.
func LinkHeader(origin string) string {
	return "<" + origin + WellKnownPath + `>; rel="` + LinkRelAPICatalog + `"`
}

func catalogHeaders(origin string) map[string]string {
	return map[string]string{
		"Content-Type": LinksetContentType,
		"Link":         LinkHeader(origin),
	}
}

// WriteHTTP copies the response onto w.
func (r Response) WriteHTTP(w http.ResponseWriter) error {
	for k, v := range r.Header {
		w.Header().Set(k, v)
	}
	w.WriteHeader(r.Status)
	if r.Body == nil {
		return nil
	}
	_, err := w.Write(r.Body)
	return err
}
