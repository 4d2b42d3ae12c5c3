package handlers

import (
	"net/http"
	"strconv"

	"github.com/clipshare/backend/internal/repositories"
)

// pageFromQuery reads the page/perPage parameters, falling back to the
// defaults for missing or unparseable values.
func pageFromQuery(r *http.Request) repositories.Page {
	q := r.URL.Query()

	number, err := strconv.Atoi(q.Get("page"))
	if err != nil {
		number = 1
	}

	size, err := strconv.Atoi(q.Get("perPage"))
	if err != nil {
		size = repositories.DefaultPageSize
	}

	return repositories.NewPage(number, size)
}
