package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"

	"github.com/umputun/jobtrack/app/web"
)

// generates JSON schemas for the jobs API payloads, usage: schema [output dir]
func main() {
	outDir := "."
	if len(os.Args) > 1 {
		outDir = os.Args[1]
	}

	schemas := []struct {
		file, title, description string
		value                    any
	}{
		{"job.schema.json", "Job", "Job object returned by the jobs API", &web.APIJob{}},
		{"job-create.schema.json", "Create job request", "Body of POST /api/jobs", &web.CreateJobRequest{}},
		{"job-update.schema.json", "Update job request", "Body of PUT /api/jobs/{id}, all fields optional", &web.UpdateJobRequest{}},
	}

	r := jsonschema.Reflector{DoNotReference: true, RequiredFromJSONSchemaTags: true}
	for _, s := range schemas {
		schema := r.Reflect(s.value)
		schema.Title = s.title
		schema.Description = s.description

		data, err := json.MarshalIndent(schema, "", "  ")
		if err != nil {
			log.Fatalf("failed to marshal schema %s: %v", s.file, err)
		}

		outputPath := filepath.Join(outDir, s.file)
		if err := os.WriteFile(outputPath, data, 0o600); err != nil { //nolint:gosec // schema file is not sensitive
			log.Fatalf("failed to write schema file: %v", err)
		}
		fmt.Printf("Schema generated successfully at %s\n", outputPath)
	}
}
