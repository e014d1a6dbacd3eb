package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/beevik/etree"
)

const sitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// SEOHandler serves sitemap.xml and robots.txt for the single-page site.
type SEOHandler struct {
	siteURL string
	now     func() time.Time
}

// NewSEOHandler creates an SEOHandler. siteURL, when set, is the canonical
// base URL for non-localhost requests.
func NewSEOHandler(siteURL string) *SEOHandler {
	return &SEOHandler{siteURL: strings.TrimRight(strings.TrimSpace(siteURL), "/"), now: time.Now}
}

func (h *SEOHandler) baseURL(r *http.Request) string {
	host := r.Host
	switch {
	case strings.Contains(host, "localhost"):
		return "http://" + host
	case h.siteURL != "":
		return h.siteURL
	default:
		return "https://" + host
	}
}

// Sitemap handles GET /sitemap.xml.
func (h *SEOHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	urlset := doc.CreateElement("urlset")
	urlset.CreateAttr("xmlns", sitemapNamespace)

	u := urlset.CreateElement("url")
	u.CreateElement("loc").SetText(h.baseURL(r) + "/")
	u.CreateElement("lastmod").SetText(h.now().UTC().Format(time.RFC3339))
	u.CreateElement("changefreq").SetText("monthly")
	u.CreateElement("priority").SetText("1.0")

	doc.Indent(2)

	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusOK)
	if _, err := doc.WriteTo(w); err != nil {
		slog.Warn("failed to write sitemap", "error", err)
	}
}

// Robots handles GET /robots.txt.
func (h *SEOHandler) Robots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("User-agent: *\nAllow: /\n\nSitemap: " + h.baseURL(r) + "/sitemap.xml"))
}
