package movie

import "github.com/patrickmn/go-cache"

// Caches holds the two process-local result caches. Entries never expire and
// are not invalidated by CRUD writes to the store.
type Caches struct {
	search *cache.Cache
	daily  *cache.Cache
}

func NewCaches() *Caches {
	return &Caches{
		search: cache.New(cache.NoExpiration, 0),
		daily:  cache.New(cache.NoExpiration, 0),
	}
}

func (c *Caches) Search(query string) ([]Movie, bool) {
	return get(c.search, query)
}

func (c *Caches) SetSearch(query string, movies []Movie) {
	c.search.Set(query, cloneMovies(movies), cache.NoExpiration)
}

func (c *Caches) Daily(day string) ([]Movie, bool) {
	return get(c.daily, day)
}

func (c *Caches) SetDaily(day string, movies []Movie) {
	c.daily.Set(day, cloneMovies(movies), cache.NoExpiration)
}

// Len reports the number of search and daily entries.
func (c *Caches) Len() (search, daily int) {
	return c.search.ItemCount(), c.daily.ItemCount()
}

func get(c *cache.Cache, key string) ([]Movie, bool) {
	v, ok := c.Get(key)
	if !ok {
		return nil, false
	}
	movies, ok := v.([]Movie)
	if !ok {
		return nil, false
	}
	return cloneMovies(movies), true
}
