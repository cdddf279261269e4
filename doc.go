// Package histcache implements a small value cache over a key-value store that
// records how it is used: every Store call is counted and its inputs and
// outputs are appended to history lists that Replay renders back.
//
// Components:
//   - Provider: key-value store with counters and lists (Redis, or an in-process
//     store on a map, BigCache or Ristretto).
//   - counter.Store: per-operation call counters (in the provider by default).
//   - instrument: Counter and History instruments composed around Store.
//   - codec.Args: serializes recorded arguments (msgpack by default) so replay
//     decodes structured data instead of evaluating stored text.
//
// Keys:
//
//	<uuid>                 - stored values
//	Cache.store            - call counter
//	Cache.store:inputs     - list of encoded argument lists
//	Cache.store:outputs    - list of result texts ("!error: ..." for failed calls)
//
// Usage:
//
//	c, _ := histcache.New(ctx, histcache.Options{Provider: p})
//	id, _ := c.Store(ctx, "hello")
//	s, _, _ := histcache.GetAs(ctx, c, id, histcache.GetStr)
//	_ = c.Replay(ctx, histcache.StoreOp)
package histcache
