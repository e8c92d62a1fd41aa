/*
 * Copyright (C) 2024 Nuts community
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <https://www.gnu.org/licenses/>.
 *
 */

package credtemplate

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/cbroglie/mustache"
	"github.com/nuts-foundation/nuts-issuer/vci/log"
	"github.com/nuts-foundation/nuts-issuer/vci/openid4vci"
	"github.com/santhosh-tekuri/jsonschema"
)

//go:embed assets/*.json
var assets embed.FS

const templateSuffix = ".json"
const schemaSuffix = ".schema.json"

// reservedParameters are set by the issuer and can't be supplied as claims.
var reservedParameters = []string{"id", "issuer", "valid_from", "valid_until"}

func init() {
	// a template referencing a claim that isn't supplied is a bug in the template
	mustache.AllowMissingVariables = false
}

// Parameters are the values a credential document is rendered with.
type Parameters struct {
	// ID is the credential ID.
	ID string
	// Issuer is the issuer identifier.
	Issuer string
	// ValidFrom and ValidUntil bound the validity of the credential.
	ValidFrom  time.Time
	ValidUntil time.Time
	// Claims are the credential type specific claims, validated against the template's schema.
	Claims map[string]interface{}
}

// Template renders the unsigned credential document of a credential type.
type Template struct {
	credentialType string
	tpl            *mustache.Template
	schema         *jsonschema.Schema
}

// CredentialType returns the credential type the template renders.
func (t Template) CredentialType() string {
	return t.credentialType
}

// Validate checks the claims against the credential type's JSON schema.
func (t Template) Validate(claims map[string]interface{}) error {
	for _, reserved := range reservedParameters {
		if _, ok := claims[reserved]; ok {
			return invalidClaims(fmt.Errorf("claim '%s' is reserved", reserved))
		}
	}
	data, err := json.Marshal(claims)
	if err != nil {
		return invalidClaims(err)
	}
	if err = t.schema.Validate(bytes.NewReader(data)); err != nil {
		return invalidClaims(err)
	}
	return nil
}

// Render validates the claims and renders the credential document.
// Every claim is rendered as its JSON encoding, so templates reference them unescaped: {{{claim}}}.
func (t Template) Render(params Parameters) (map[string]interface{}, error) {
	if err := t.Validate(params.Claims); err != nil {
		return nil, err
	}
	values := map[string]string{}
	for name, value := range params.Claims {
		encoded, err := json.Marshal(value)
		if err != nil {
			return nil, invalidClaims(err)
		}
		values[name] = string(encoded)
	}
	for name, value := range map[string]string{
		"id":          params.ID,
		"issuer":      params.Issuer,
		"valid_from":  params.ValidFrom.UTC().Format(time.RFC3339),
		"valid_until": params.ValidUntil.UTC().Format(time.RFC3339),
	} {
		encoded, _ := json.Marshal(value)
		values[name] = string(encoded)
	}
	rendered, err := t.tpl.Render(values)
	if err != nil {
		return nil, fmt.Errorf("unable to render %s template: %w", t.credentialType, err)
	}
	var result map[string]interface{}
	if err = json.Unmarshal([]byte(rendered), &result); err != nil {
		return nil, fmt.Errorf("%s template did not render to a JSON object: %w", t.credentialType, err)
	}
	return result, nil
}

// Registry holds the templates of all credential types the issuer supports.
type Registry struct {
	templates map[string]Template
}

// LoadRegistry loads the built-in templates, and the templates in the given directory (if not empty).
// Templates in the directory replace built-in templates of the same credential type.
// A credential type consists of <type>.json (mustache template) and <type>.schema.json (JSON schema of the claims).
func LoadRegistry(dir string) (*Registry, error) {
	builtin, _ := fs.Sub(assets, "assets")
	result := &Registry{templates: map[string]Template{}}
	if err := result.load(builtin); err != nil {
		return nil, fmt.Errorf("unable to load built-in credential templates: %w", err)
	}
	if dir != "" {
		if err := result.load(os.DirFS(dir)); err != nil {
			return nil, fmt.Errorf("unable to load credential templates (dir=%s): %w", dir, err)
		}
	}
	return result, nil
}

func (r *Registry) load(fsys fs.FS) error {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return err
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, templateSuffix) || strings.HasSuffix(name, schemaSuffix) {
			continue
		}
		credentialType := strings.TrimSuffix(name, templateSuffix)
		template, err := parseTemplate(fsys, credentialType)
		if err != nil {
			return err
		}
		r.templates[credentialType] = *template
		log.Logger().Debugf("Loaded credential template: %s", credentialType)
	}
	return nil
}

func parseTemplate(fsys fs.FS, credentialType string) (*Template, error) {
	templateData, err := fs.ReadFile(fsys, credentialType+templateSuffix)
	if err != nil {
		return nil, err
	}
	tpl, err := mustache.ParseString(string(templateData))
	if err != nil {
		return nil, fmt.Errorf("invalid template %s: %w", credentialType, err)
	}
	schemaData, err := fs.ReadFile(fsys, credentialType+schemaSuffix)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("missing schema for template %s", credentialType)
		}
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft7
	schemaURL := "https://issuer.local/schemas/" + credentialType + ".json"
	if err = compiler.AddResource(schemaURL, bytes.NewReader(schemaData)); err != nil {
		return nil, fmt.Errorf("invalid schema %s: %w", credentialType, err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("invalid schema %s: %w", credentialType, err)
	}
	return &Template{credentialType: credentialType, tpl: tpl, schema: schema}, nil
}

// Get returns the template of the credential type.
// It returns an openid4vci.Error with code vc_template_does_not_exist if there is none.
func (r *Registry) Get(credentialType string) (*Template, error) {
	template, ok := r.templates[credentialType]
	if !ok {
		return nil, openid4vci.Error{
			Code:        openid4vci.VCTemplateDoesNotExist,
			Description: fmt.Sprintf("no template for credential type: %s", credentialType),
			StatusCode:  http.StatusNotFound,
		}
	}
	return &template, nil
}

// Types returns the supported credential types, sorted.
func (r *Registry) Types() []string {
	result := make([]string, 0, len(r.templates))
	for credentialType := range r.templates {
		result = append(result, credentialType)
	}
	sort.Strings(result)
	return result
}

func invalidClaims(err error) error {
	return openid4vci.Error{
		Code:        openid4vci.InvalidRequest,
		Description: "invalid credential claims: " + err.Error(),
		Err:         err,
		StatusCode:  http.StatusBadRequest,
	}
}
