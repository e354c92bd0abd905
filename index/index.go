package index

import (
	"log"
	"os"
	"time"

	"github.com/blevesearch/bleve/v2"
)

const defaultIndexPath = "logos.bleve"

// Item is the indexed view of one cached logo. All fields are searchable
// using their lowercase JSON tag names (e.g., query '+source:Clearbit' or
// '+formatType:svg').
type Item struct {
	ID          string    `json:"id"`                    // Cache key (cache/<slug>/<source>/<format>)
	CompanyName string    `json:"companyName"`           // Company the logo belongs to
	Source      string    `json:"source"`                // Source adapter that found it
	FormatType  string    `json:"formatType"`            // png, svg, jpg, webp
	Score       float64   `json:"score"`                 // Combined quality score
	ImageURL    string    `json:"imageUrl,omitempty"`    // Where the image was downloaded from
	FilePath    string    `json:"filePath,omitempty"`    // Saved location on disk, if any
	FoundAt     time.Time `json:"foundAt,omitempty"`     // When the logo entered the cache
	ContentHash string    `json:"contentHash,omitempty"` // blake3 hash of the image bytes
}

// OpenOrCreateIndex opens an existing Bleve index or creates a new one if it doesn't exist.
func OpenOrCreateIndex(indexPath string) (bleve.Index, error) {
	if indexPath == "" {
		indexPath = defaultIndexPath
	}

	index, err := bleve.Open(indexPath)
	if err == bleve.ErrorIndexPathDoesNotExist {
		log.Printf("Creating new index at: %s", indexPath)
		mapping := bleve.NewIndexMapping()
		index, err = bleve.New(indexPath, mapping)
		if err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	} else {
		log.Printf("Opened existing index at: %s", indexPath)
	}
	return index, nil
}

// IndexItem adds or updates an item in the Bleve index.
func IndexItem(index bleve.Index, item Item) error {
	return index.Index(item.ID, item)
}

// SearchIndex performs a search query against the index.
func SearchIndex(index bleve.Index, query string) (*bleve.SearchResult, error) {
	searchQuery := bleve.NewQueryStringQuery(query)
	searchRequest := bleve.NewSearchRequest(searchQuery)
	searchRequest.Fields = []string{"*"}
	searchResults, err := index.Search(searchRequest)
	if err != nil {
		return nil, err
	}
	return searchResults, nil
}

// DeleteIndex removes the index directory. Use with caution!
func DeleteIndex(indexPath string) error {
	if indexPath == "" {
		indexPath = defaultIndexPath
	}
	log.Printf("Attempting to delete index at: %s", indexPath)
	return os.RemoveAll(indexPath)
}
