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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlagSet(t *testing.T) {
	flags := FlagSet()

	address, err := flags.GetString("http.public.address")
	require.NoError(t, err)
	assert.Equal(t, ":8080", address)
	internal, err := flags.GetString("http.internal.address")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8081", internal)
	logLevel, err := flags.GetString("http.log")
	require.NoError(t, err)
	assert.Equal(t, "metadata", logLevel)
}
