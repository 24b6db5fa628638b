package mw

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
)

type cachedResponse struct {
	status  int
	headers http.Header
	body    []byte
}

// recordingWriter copies the body while it is written to the client.
type recordingWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w recordingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w recordingWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// hostelPrefix namespaces cache keys by hostel. Requests outside HostelScope share "0|".
func hostelPrefix(c *gin.Context) string {
	return strconv.FormatInt(HostelID(c), 10) + "|"
}

// invalidate drops every cached response of one hostel.
func invalidate(store *cache.Cache, prefix string) {
	for key := range store.Items() {
		if strings.HasPrefix(key, prefix) {
			store.Delete(key)
		}
	}
}

// Cache serves repeated GETs from store for duration. Entries are kept per
// hostel, and a successful write in a hostel drops that hostel's entries so
// the refetch after a mutation always reaches the database.
func Cache(store *cache.Cache, duration time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		prefix := hostelPrefix(c)

		if c.Request.Method != http.MethodGet {
			c.Next()
			if s := c.Writer.Status(); s >= 200 && s < 400 {
				invalidate(store, prefix)
			}
			return
		}

		key := prefix + c.Request.URL.RequestURI()
		if v, found := store.Get(key); found {
			hit := v.(cachedResponse)
			for k, vals := range hit.headers {
				c.Writer.Header()[k] = vals
			}
			c.Writer.Header().Set("X-Cache", "HIT")
			c.Writer.WriteHeader(hit.status)
			c.Writer.Write(hit.body)
			c.Abort()
			return
		}

		rec := &recordingWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = rec
		c.Next()

		if s := rec.Status(); s >= 200 && s < 300 {
			store.Set(key, cachedResponse{
				status:  s,
				headers: rec.Header().Clone(),
				body:    rec.body.Bytes(),
			}, duration)
		}
	}
}

// FlushOnWrite empties store after a successful write. It guards routes that
// change rows shown by cached reads of any hostel, such as a user's own profile.
func FlushOnWrite(store *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if c.Request.Method == http.MethodGet {
			return
		}
		if s := c.Writer.Status(); s >= 200 && s < 400 {
			store.Flush()
		}
	}
}
