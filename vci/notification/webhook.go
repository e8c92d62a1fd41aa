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

package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/avast/retry-go/v4"
	"github.com/nuts-foundation/nuts-issuer/core"
	"github.com/nuts-foundation/nuts-issuer/vci/log"
	"go.uber.org/atomic"
)

var _ Sender = (*WebhookSender)(nil)

// WebhookSender posts notifications as JSON to an HTTP endpoint, retrying with backoff on failure.
// Client errors (4xx) aren't retried.
type WebhookSender struct {
	url      string
	client   core.HTTPRequestDoer
	attempts uint
	config   WebhookConfig
	// failed counts notifications that couldn't be delivered after all attempts.
	failed atomic.Uint64
}

// NewWebhookSender creates a new WebhookSender.
func NewWebhookSender(config WebhookConfig, client core.HTTPRequestDoer) *WebhookSender {
	attempts := config.Attempts
	if attempts == 0 {
		attempts = 1
	}
	return &WebhookSender{url: config.URL, client: client, attempts: attempts, config: config}
}

// Failed returns the number of notifications that couldn't be delivered.
func (w *WebhookSender) Failed() uint64 {
	return w.failed.Load()
}

func (w *WebhookSender) Notify(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	err = retry.Do(func() error {
		return w.post(ctx, data)
	},
		retry.Attempts(w.attempts),
		retry.Delay(w.config.Delay),
		retry.DelayType(retry.BackOffDelay),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Logger().
				WithError(err).
				WithField(core.LogFieldProcedureID, event.ProcedureID).
				Warnf("Notification delivery failed, retrying (attempt=%d)", n+1)
		}),
	)
	if err != nil {
		w.failed.Inc()
		return core.WrapError(ErrDeliveryFailed, err)
	}
	return nil
}

func (w *WebhookSender) post(ctx context.Context, data []byte) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(data))
	if err != nil {
		return retry.Unrecoverable(err)
	}
	request.Header.Set("Content-Type", "application/json")
	response, err := w.client.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()
	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return nil
	}
	err = core.TestResponseCode(http.StatusOK, response)
	var httpErr core.HttpError
	if errors.As(err, &httpErr) && httpErr.StatusCode >= 400 && httpErr.StatusCode < 500 {
		return retry.Unrecoverable(err)
	}
	return err
}
