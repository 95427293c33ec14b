// Package docs registers the API document with swag so the swagger UI can serve it.
// Import it for its side effect.
package docs

import (
	"encoding/json"
	"sync"

	"dispatch/internal/generated/servers"

	"github.com/swaggo/swag"
)

type openAPIDoc struct {
	once sync.Once
	doc  string
}

// ReadDoc renders the embedded OpenAPI document as JSON once.
func (d *openAPIDoc) ReadDoc() string {
	d.once.Do(func() {
		swagger, err := servers.GetSwagger()
		if err != nil {
			d.doc = "{}"
			return
		}
		raw, err := json.Marshal(swagger)
		if err != nil {
			d.doc = "{}"
			return
		}
		d.doc = string(raw)
	})
	return d.doc
}

func init() {
	swag.Register(swag.Name, &openAPIDoc{})
}
