package playlistserver

import (
	"net"
	"net/http"
	"strings"

	"github.com/a13labs/m3uflat/pkg/logger"
	"github.com/oschwald/geoip2-golang"
)

type countryLookup interface {
	Country(ip net.IP) (*geoip2.Country, error)
	Close() error
}

type geoFilter struct {
	db        countryLookup
	whitelist map[string]bool
	internal  []*net.IPNet
}

func newGeoFilter(config GeoIPConfig) (*geoFilter, error) {
	if config.Database == "" {
		return nil, nil
	}

	db, err := geoip2.Open(config.Database)
	if err != nil {
		return nil, err
	}

	filter, err := newGeoFilterWithLookup(db, config)
	if err != nil {
		db.Close()
		return nil, err
	}
	return filter, nil
}

func newGeoFilterWithLookup(db countryLookup, config GeoIPConfig) (*geoFilter, error) {
	filter := &geoFilter{
		db:        db,
		whitelist: make(map[string]bool),
		internal:  make([]*net.IPNet, 0),
	}

	for _, country := range config.Whitelist {
		filter.whitelist[strings.ToUpper(country)] = true
	}

	for _, cidr := range config.InternalNetworks {
		_, ipnet, err := net.ParseCIDR(cidr)
		if err != nil {
			return nil, err
		}
		filter.internal = append(filter.internal, ipnet)
	}

	return filter, nil
}

func (g *geoFilter) close() {
	if g != nil && g.db != nil {
		g.db.Close()
	}
}

func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return strings.TrimSpace(ip)
	}
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return ""
	}
	return ip
}

func (g *geoFilter) middleware(next http.Handler) http.Handler {
	if g == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		parsedIP := net.ParseIP(ip)
		if parsedIP == nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		for _, ipnet := range g.internal {
			if ipnet.Contains(parsedIP) {
				next.ServeHTTP(w, r)
				return
			}
		}

		record, err := g.db.Country(parsedIP)
		if err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		countryCode := record.Country.IsoCode
		if !g.whitelist[countryCode] {
			logger.Warnf("Access Denied: %s, Country: %s", ip, countryCode)
			http.Error(w, "Access Denied", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}
