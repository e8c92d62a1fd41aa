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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nuts-foundation/nuts-issuer/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func learClaims() map[string]interface{} {
	return map[string]interface{}{
		"mandator": map[string]interface{}{
			"organizationIdentifier": "VATNL-12345678",
			"organization":           "Acme B.V.",
			"commonName":             "Jane Boss",
			"country":                "NL",
		},
		"mandatee": map[string]interface{}{
			"first_name": "John",
			"last_name":  "O\"Doe",
			"email":      "a@b.com",
		},
		"power": []interface{}{
			map[string]interface{}{
				"tmf_type":     "Domain",
				"tmf_domain":   []interface{}{"DOME"},
				"tmf_function": "Onboarding",
				"tmf_action":   []interface{}{"Execute"},
			},
		},
	}
}

func TestLoadRegistry(t *testing.T) {
	t.Run("built-in", func(t *testing.T) {
		registry, err := LoadRegistry("")

		require.NoError(t, err)
		assert.Equal(t, []string{"LEARCredentialEmployee"}, registry.Types())
	})
	t.Run("directory adds templates", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "Membership.json"), []byte(`{"id": {{{id}}}, "member": {{{member}}}}`), 0600))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "Membership.schema.json"), []byte(`{"type": "object", "required": ["member"]}`), 0600))

		registry, err := LoadRegistry(dir)

		require.NoError(t, err)
		assert.Equal(t, []string{"LEARCredentialEmployee", "Membership"}, registry.Types())
	})
	t.Run("missing schema", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "Membership.json"), []byte(`{}`), 0600))

		_, err := LoadRegistry(dir)

		assert.ErrorContains(t, err, "missing schema for template Membership")
	})
	t.Run("invalid schema", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "Membership.json"), []byte(`{}`), 0600))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "Membership.schema.json"), []byte(`{"type": 5}`), 0600))

		_, err := LoadRegistry(dir)

		assert.ErrorContains(t, err, "invalid schema Membership")
	})
	t.Run("invalid template", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "Membership.json"), []byte(`{{#unclosed}}`), 0600))

		_, err := LoadRegistry(dir)

		assert.ErrorContains(t, err, "invalid template Membership")
	})
	t.Run("directory does not exist", func(t *testing.T) {
		_, err := LoadRegistry(filepath.Join(t.TempDir(), "missing"))

		assert.Error(t, err)
	})
}

func TestRegistry_Get(t *testing.T) {
	registry, err := LoadRegistry("")
	require.NoError(t, err)

	t.Run("ok", func(t *testing.T) {
		template, err := registry.Get("LEARCredentialEmployee")

		require.NoError(t, err)
		assert.Equal(t, "LEARCredentialEmployee", template.CredentialType())
	})
	t.Run("unknown", func(t *testing.T) {
		_, err := registry.Get("Diploma")

		test.AssertErrorCode(t, err, "vc_template_does_not_exist")
	})
}

func TestTemplate_Render(t *testing.T) {
	registry, _ := LoadRegistry("")
	template, _ := registry.Get("LEARCredentialEmployee")
	validFrom := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	params := Parameters{
		ID:         "urn:uuid:9b6c5b6a-5e1d-4b2d-8a56-3a2a2a4b2f11",
		Issuer:     "https://issuer.example.com",
		ValidFrom:  validFrom,
		ValidUntil: validFrom.AddDate(1, 0, 0),
		Claims:     learClaims(),
	}

	t.Run("ok", func(t *testing.T) {
		document, err := template.Render(params)

		require.NoError(t, err)
		assert.Equal(t, params.ID, document["id"])
		assert.Equal(t, []interface{}{"VerifiableCredential", "LEARCredentialEmployee"}, document["type"])
		assert.Equal(t, "2024-01-01T12:00:00Z", document["validFrom"])
		assert.Equal(t, "2025-01-01T12:00:00Z", document["validUntil"])
		mandate := document["credentialSubject"].(map[string]interface{})["mandate"].(map[string]interface{})
		assert.Equal(t, "O\"Doe", mandate["mandatee"].(map[string]interface{})["last_name"])
		assert.Len(t, mandate["power"], 1)
	})
	t.Run("claims violate schema", func(t *testing.T) {
		claims := learClaims()
		delete(claims, "power")
		invalid := params
		invalid.Claims = claims

		_, err := template.Render(invalid)

		test.AssertErrorCode(t, err, "invalid_request")
	})
	t.Run("reserved claim", func(t *testing.T) {
		claims := learClaims()
		claims["issuer"] = "https://evil.example.com"

		err := template.Validate(claims)

		test.AssertErrorCode(t, err, "invalid_request")
		assert.ErrorContains(t, err, "claim 'issuer' is reserved")
	})
}
