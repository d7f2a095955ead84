package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/figures-analytics/figures/internal/domain/platform"
	"github.com/figures-analytics/figures/internal/shared/constants"
	"github.com/figures-analytics/figures/internal/shared/logger"
	"github.com/figures-analytics/figures/internal/shared/utils"
)

// SiteLookup finds a site by domain, returning nil when there is none.
type SiteLookup interface {
	GetByDomain(ctx context.Context, domain string) (*platform.Site, error)
}

type SiteMiddleware struct {
	sites         SiteLookup
	defaultDomain string
	multisite     bool
	logger        logger.Interface
}

// NewSiteMiddleware resolves sites by request host when multisite is set.
// Otherwise every request is served by the default site.
func NewSiteMiddleware(sites SiteLookup, defaultDomain string, multisite bool, logger logger.Interface) *SiteMiddleware {
	return &SiteMiddleware{
		sites:         sites,
		defaultDomain: defaultDomain,
		multisite:     multisite,
		logger:        logger,
	}
}

// ResolveSite stores the site serving the request in the context. Unknown
// hosts fall back to the default site domain.
func (m *SiteMiddleware) ResolveSite() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		host := m.defaultDomain
		if m.multisite {
			host = requestHost(c.Request)
		}
		site, err := m.sites.GetByDomain(ctx, host)
		if err == nil && site == nil && m.defaultDomain != "" && host != m.defaultDomain {
			site, err = m.sites.GetByDomain(ctx, m.defaultDomain)
		}
		if err != nil {
			m.logger.Errorw("failed to resolve site", "host", host, "error", err)
			utils.ErrorResponse(c, http.StatusInternalServerError, constants.ErrMsgInternalServerError)
			c.Abort()
			return
		}
		if site == nil {
			m.logger.Warnw("no site for host", "host", host, "default_domain", m.defaultDomain)
			utils.ErrorResponse(c, http.StatusNotFound, "site not found")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeySite, site)
		c.Next()
	}
}

// SiteFromContext returns the site set by ResolveSite, or nil.
func SiteFromContext(c *gin.Context) *platform.Site {
	v, ok := c.Get(constants.ContextKeySite)
	if !ok {
		return nil
	}
	site, _ := v.(*platform.Site)
	return site
}

func requestHost(r *http.Request) string {
	host := r.Host
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return strings.ToLower(host)
}
