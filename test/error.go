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

package test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

// AssertIsError asserts that expected is, or is the cause of the given actual error (according to errors.Is()).
func AssertIsError(t *testing.T, actual error, expected error) bool {
	t.Helper()
	if !errors.Is(actual, expected) {
		assert.Failf(t, "incorrect error", "actual error does not equal or is the wrapped in the given error\n\texpected: %v\n\tactual:%v", expected, actual)
		return false
	}
	return true
}

// AssertErrorCode asserts that the given error carries the given machine-readable error code,
// e.g. a protocol error returned by one of the issuer's endpoints.
func AssertErrorCode(t *testing.T, actual error, code string) bool {
	t.Helper()
	var coded interface{ ErrorCode() string }
	if !errors.As(actual, &coded) {
		assert.Failf(t, "incorrect error", "error does not carry an error code\n\texpected code: %s\n\tactual:%v", code, actual)
		return false
	}
	return assert.Equal(t, code, coded.ErrorCode())
}
