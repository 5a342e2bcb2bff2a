// Command gensources generates a starter declarative sources file.
// Usage: go run cmd/gensources/main.go [path]
package main

import (
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jonesrussell/payload-manager/internal/models"
	"github.com/jonesrussell/payload-manager/internal/payload"
	"github.com/jonesrussell/payload-manager/internal/watcher"
)

func main() {
	path := "sources.yml"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	defs := watcher.Definitions{
		Handlers: map[string][]models.SourceSpec{
			payload.DNFHandlerName: {
				{
					Type: payload.SourceTypeCDROM,
					Name: "install-media",
				},
				{
					Type: payload.SourceTypeURL,
					Name: "updates",
					URL:  "https://mirror.example.com/updates",
					Options: models.Properties{
						"proxy": "http://proxy.example.com:3128",
					},
				},
			},
			payload.LiveImageHandlerName: {
				{
					Type: payload.SourceTypeLiveImage,
					URL:  "https://images.example.com/live.img",
				},
			},
		},
	}

	data, err := yaml.Marshal(&defs)
	if err != nil {
		log.Fatal(err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Fatal(err)
	}

	log.Printf("Starter sources file written to %s", path)
}
