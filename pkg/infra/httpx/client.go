package httpx

import "net/http"

// Client abstracts the standard http.Client so scorer clients can be
// tested against fakes.
type Client interface {
	Do(req *http.Request) (*http.Response, error)
}
