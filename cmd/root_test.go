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

package cmd

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/nuts-foundation/nuts-issuer/core"
	"github.com/nuts-foundation/nuts-issuer/test"
	"github.com/nuts-foundation/nuts-issuer/test/io"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_rootCmd(t *testing.T) {
	t.Run("no args prints help", func(t *testing.T) {
		buf := new(bytes.Buffer)
		command := CreateCommand(CreateSystem(func() {}))
		command.SetOut(buf)
		command.SetArgs([]string{})

		require.NoError(t, command.Execute())

		assert.Contains(t, buf.String(), "Available Commands")
	})
	t.Run("config prints the effective configuration", func(t *testing.T) {
		t.Setenv("NUTS_VCI_ISSUER", "https://issuer.nl")
		buf := new(bytes.Buffer)
		command := CreateCommand(CreateSystem(func() {}))
		command.SetOut(buf)
		command.SetArgs([]string{"config", "--vci.txcodelength", "6"})

		require.NoError(t, command.Execute())

		assert.Contains(t, buf.String(), "Current system config")
		assert.Contains(t, buf.String(), "vci.issuer -> https://issuer.nl")
		assert.Contains(t, buf.String(), "vci.txcodelength -> 6")
	})
	t.Run("version", func(t *testing.T) {
		buf := new(bytes.Buffer)
		command := CreateCommand(CreateSystem(func() {}))
		command.SetOut(buf)
		command.SetArgs([]string{"version"})

		require.NoError(t, command.Execute())

		assert.Contains(t, buf.String(), "Git version: development")
	})
	t.Run("invalid logger format", func(t *testing.T) {
		command := CreateCommand(CreateSystem(func() {}))
		command.SetOut(new(bytes.Buffer))
		command.SetArgs([]string{"config", "--loggerformat", "xml"})

		err := command.Execute()

		assert.EqualError(t, err, "invalid formatter: 'xml'")
	})
}

func Test_serverCmd(t *testing.T) {
	t.Run("start and shutdown", func(t *testing.T) {
		publicAddress := fmt.Sprintf("localhost:%d", test.FreeTCPPort())
		internalAddress := fmt.Sprintf("localhost:%d", test.FreeTCPPort())
		t.Setenv("NUTS_DATADIR", io.TestDirectory(t))
		t.Setenv("NUTS_STRICTMODE", "false")
		t.Setenv("NUTS_VCI_ISSUER", "http://"+publicAddress)
		t.Setenv("NUTS_HTTP_PUBLIC_ADDRESS", publicAddress)
		t.Setenv("NUTS_HTTP_INTERNAL_ADDRESS", internalAddress)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		system := CreateSystem(cancel)
		command := CreateCommand(system)
		command.SetOut(new(bytes.Buffer))
		command.SetArgs([]string{"server"})

		result := make(chan error, 1)
		go func() {
			result <- command.ExecuteContext(ctx)
		}()

		test.WaitFor(t, func() (bool, error) {
			return isUp("http://" + publicAddress + "/.well-known/openid-credential-issuer"), nil
		}, 5*time.Second, "public interface not up")
		assert.True(t, isUp("http://"+internalAddress+"/metrics"))
		cancel()
		select {
		case err := <-result:
			assert.NoError(t, err)
		case <-time.After(10 * time.Second):
			t.Fatal("server did not shut down")
		}
	})
	t.Run("invalid configuration", func(t *testing.T) {
		t.Setenv("NUTS_DATADIR", io.TestDirectory(t))
		t.Setenv("NUTS_STRICTMODE", "false")
		command := CreateCommand(CreateSystem(func() {}))
		command.SetOut(new(bytes.Buffer))
		command.SetArgs([]string{"server"})

		err := command.ExecuteContext(context.Background())

		assert.EqualError(t, err, "vci.issuer must be configured")
	})
}

func TestCreateSystem(t *testing.T) {
	system := CreateSystem(func() {})

	var names []string
	system.VisitEngines(func(engine core.Engine) {
		if named, ok := engine.(core.Named); ok {
			names = append(names, named.Name())
		}
	})

	assert.Equal(t, []string{"HTTP", "Storage", "Metrics", "VCI"}, names)
}

func isUp(url string) bool {
	response, err := http.Get(url)
	if err != nil {
		return false
	}
	_ = response.Body.Close()
	return response.StatusCode == http.StatusOK
}
