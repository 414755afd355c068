// Package redis provides the Redis backed form store, distributed session
// locker and submission queue.
package redis
