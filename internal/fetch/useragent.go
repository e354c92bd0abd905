package fetch

import "math/rand"

// userAgents mirrors a set of common desktop browsers. When rotation is
// enabled each request picks one at random; otherwise the first entry is
// used for every request.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/14.1.1 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:89.0) Gecko/20100101 Firefox/89.0",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/92.0.4515.107 Safari/537.36",
}

func pickUserAgent(rotate bool) string {
	if rotate {
		return userAgents[rand.Intn(len(userAgents))]
	}
	return userAgents[0]
}
