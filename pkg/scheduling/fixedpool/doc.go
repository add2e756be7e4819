/*
Package fixedpool provides a bounded fixed-size worker pool whose results
are delivered in completion order, not submission order.

A unit that finishes early is handed to the consumer immediately instead
of waiting behind a slower, earlier-submitted unit. This is the static
dispatch half of the scheduling comparison: every task is pinned to
whichever worker dequeues it, and no rebalancing happens afterwards.

Basic usage:

	pool, err := fixedpool.New(4, len(tasks))
	if err != nil {
		log.Fatal(err)
	}

	for _, task := range tasks {
		if err := pool.Submit(task); err != nil {
			log.Fatal(err)
		}
	}

	for range tasks {
		result := <-pool.Results()
		if result.Error != nil {
			log.Printf("task failed: %v", result.Error)
		}
	}

	<-pool.ShutdownWithTimeout(5 * time.Second)

Shutdown is graceful: no new work is accepted and in-flight units are
given a bounded grace period, after which stragglers are force-canceled
through their contexts.
*/
package fixedpool
