// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
)

// cachedList serves a list endpoint through the response cache. On a miss
// it calls load, encodes the result and stores the body under the key of
// group and query.
func (a *API) cachedList(w http.ResponseWriter, r *http.Request, group string, query url.Values, failMsg string, load func() (any, error)) {
	key := a.cache.KeyFor(r.Context(), group, query)
	if body, ok := a.cache.Get(r.Context(), key); ok {
		writeCached(w, body, "HIT")
		return
	}

	data, err := load()
	if err != nil {
		fail(w, r, err, failMsg)
		return
	}
	body, err := json.Marshal(data)
	if err != nil {
		fail(w, r, err, failMsg)
		return
	}
	a.cache.Set(r.Context(), key, body)
	writeCached(w, body, "MISS")
}

func writeCached(w http.ResponseWriter, body []byte, status string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Cache", status)
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
