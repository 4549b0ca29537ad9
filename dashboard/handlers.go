package dashboard

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/aluiziolira/go-book-catalog/catalog"
	"github.com/gin-gonic/gin"
)

// viewParams is the query-string form of a catalog.Query. Absent parameters
// fall back to the untouched-controls defaults.
type viewParams struct {
	Search       string `form:"q"`
	MinRating    int    `form:"min_rating,default=0"`
	MaxRating    int    `form:"max_rating,default=5"`
	Availability string `form:"availability,default=all"`
	SortBy       string `form:"sort,default=title"`
	Order        string `form:"order,default=asc"`
	Page         int    `form:"page,default=1"`
}

func (p viewParams) query() catalog.Query {
	q := catalog.DefaultQuery()
	q.Search = p.Search
	q.MinRating = clampRating(p.MinRating)
	q.MaxRating = clampRating(p.MaxRating)
	q.InStockOnly = strings.EqualFold(p.Availability, "in-stock")
	q.SortBy = catalog.SortKeyFromString(p.SortBy)
	q.Order = catalog.OrderFromString(p.Order)
	q.Page = p.Page
	return q
}

// values reproduces the request parameters, used to build pagination links
// that preserve the current filters.
func (p viewParams) values() url.Values {
	v := url.Values{}
	if p.Search != "" {
		v.Set("q", p.Search)
	}
	v.Set("min_rating", strconv.Itoa(clampRating(p.MinRating)))
	v.Set("max_rating", strconv.Itoa(clampRating(p.MaxRating)))
	v.Set("availability", p.Availability)
	v.Set("sort", p.SortBy)
	v.Set("order", p.Order)
	return v
}

func clampRating(r int) int {
	if r < 0 {
		return 0
	}
	if r > 5 {
		return 5
	}
	return r
}

// booksResponse is one page of the filtered catalog; Error is set when the
// store could not be read and the view degraded to an empty catalog.
type booksResponse struct {
	catalog.View
	Error string `json:"error,omitempty"`
}

// statsResponse carries the aggregate row for the filtered set.
type statsResponse struct {
	Stats catalog.Stats `json:"stats"`
	Error string        `json:"error,omitempty"`
}

func (s *Server) handleBooks(c *gin.Context) {
	var params viewParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	books, loadErr := s.loadCatalog()
	view := catalog.Select(books, params.query())
	c.JSON(http.StatusOK, booksResponse{View: view, Error: loadErr})
}

func (s *Server) handleStats(c *gin.Context) {
	var params viewParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	books, loadErr := s.loadCatalog()
	filtered := catalog.Filter(books, params.query())
	c.JSON(http.StatusOK, statsResponse{Stats: catalog.Summarize(filtered), Error: loadErr})
}

// pageLink is one entry in the pagination strip.
type pageLink struct {
	Number  int
	URL     string
	Current bool
}

// indexData is everything the HTML template needs for one render.
type indexData struct {
	Params       viewParams
	Cards        []Card
	Total        int
	AvgRating    string
	AvgPrice     string
	InStockCount int
	Page         int
	TotalPages   int
	PageLinks    []pageLink
	Error        string
}

func (s *Server) handleIndex(c *gin.Context) {
	var params viewParams
	if err := c.ShouldBindQuery(&params); err != nil {
		// Malformed controls fall back to the default view.
		params = viewParams{MaxRating: 5, Availability: "all", SortBy: "title", Order: "asc", Page: 1}
	}

	books, loadErr := s.loadCatalog()
	view := catalog.Select(books, params.query())

	data := indexData{
		Params:       params,
		Cards:        Cards(view.Books),
		Total:        view.Stats.Total,
		AvgRating:    FormatAverageRating(view.Stats),
		AvgPrice:     FormatAveragePrice(view.Stats),
		InStockCount: view.Stats.InStockCount,
		Page:         view.Page,
		TotalPages:   view.TotalPages,
		PageLinks:    s.pageLinks(params, view),
		Error:        loadErr,
	}

	c.HTML(http.StatusOK, "index.html.tmpl", data)
}

func (s *Server) pageLinks(params viewParams, view catalog.View) []pageLink {
	if view.TotalPages <= 1 {
		return nil
	}
	links := make([]pageLink, 0, view.TotalPages)
	for page := 1; page <= view.TotalPages; page++ {
		v := params.values()
		v.Set("page", strconv.Itoa(page))
		links = append(links, pageLink{
			Number:  page,
			URL:     "/?" + v.Encode(),
			Current: page == view.Page,
		})
	}
	return links
}
