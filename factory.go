package pagecache

// NewCache builds one of the five base replacement policies by name:
// "LRU", "FIFO", "MRU", "Clock", or "Random" (case-sensitive, matching
// spec §6's selector table). Any other value reports an InvalidArgument
// error naming the "CACHE_TYPE" parameter.
func NewCache(cacheType string, writer CacheWriter, maxMemoryKB int) (Cache, error) {
	switch cacheType {
	case "LRU":
		return NewLRU(writer, maxMemoryKB)
	case "FIFO":
		return NewFIFO(writer, maxMemoryKB)
	case "MRU":
		return NewMRU(writer, maxMemoryKB)
	case "Clock":
		return NewClock(writer, maxMemoryKB)
	case "Random":
		return NewRandom(writer, maxMemoryKB)
	default:
		return nil, invalidArgument("CACHE_TYPE", cacheType, "unknown cache type")
	}
}

// NewSoftCache builds a base policy cache the same way NewCache does, then
// wraps it in a CacheSecondLevel[T] when cacheType carries the "SOFT_"
// prefix (spec §6: "a 'SOFT_' prefix wraps the selected base cache in the
// second-level wrapper"). Go's weak.Pointer[T] needs a concrete pointee
// type at compile time, which a plain string-keyed factory cannot supply
// on its own, so callers pass the bridge functions once per record type;
// an unprefixed cacheType just returns the bare base cache and ignores
// toPtr/fromPtr.
func NewSoftCache[T any](
	cacheType string,
	writer CacheWriter,
	maxMemoryKB int,
	toPtr func(Record) (*T, bool),
	fromPtr func(*T) Record,
) (Cache, error) {
	const softPrefix = "SOFT_"

	base := cacheType
	soft := false
	if len(cacheType) > len(softPrefix) && cacheType[:len(softPrefix)] == softPrefix {
		base = cacheType[len(softPrefix):]
		soft = true
	}

	c, err := NewCache(base, writer, maxMemoryKB)
	if err != nil {
		return nil, err
	}
	if !soft {
		return c, nil
	}
	return NewSecondLevel(c, toPtr, fromPtr), nil
}
