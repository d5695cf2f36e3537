/*
Package resilience provides a circuit breaker for host calls that can fail
repeatedly, such as reading CPU and memory counters.

	breaker := resilience.New("sysinfo", resilience.Settings{
		Cooldown: 30 * time.Second,
	})

	usage, err := resilience.Do(breaker, func() (Usage, error) {
		return sample(ctx)
	})

# States

	Closed --[Trip]-> Open --[Cooldown]-> Half-Open --[Probes successes]-> Closed
	                                          |
	                                      [failure]
	                                          v
	                                        Open

While open, Do returns ErrCircuitOpen without calling fn.
*/
package resilience
