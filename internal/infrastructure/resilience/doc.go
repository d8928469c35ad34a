/*
Package resilience keeps a failing backend from being hammered, for
example an on-disk store whose volume is full.

# States

	Closed --[Failures in a row]-> Open --[Cooldown]-> Half-Open --[probe ok]-> Closed
	                                                      |
	                                                [probe fails]
	                                                      v
	                                                    Open

While half-open exactly one probe call runs; concurrent calls are
rejected with ErrProbeInFlight.

# Usage

	breaker := resilience.New("storage.badger", resilience.Settings{
		Failures: 5,
		Cooldown: 30 * time.Second,
	})

	err := breaker.Do(func() error {
		return db.Set(key, data)
	})
	if resilience.IsRejected(err) {
		// the backend was not called
	}

	data, err := resilience.Call(breaker, func() ([]byte, error) {
		return load(key)
	})
*/
package resilience
