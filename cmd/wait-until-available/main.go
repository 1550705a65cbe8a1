package main

import (
	"fmt"
	"net/http"
	"time"
)

// Polls the testimonial listing until the service answers. Used by
// deployment scripts to gate smoke tests on service availability.
func main() {
	totalWaitTime := 0
	for {
		res, err := http.Get("http://localhost:8080/api/testimonials")
		if err == nil {
			if res.StatusCode == http.StatusOK {
				fmt.Println(res)
				break
			}
			fmt.Println(res)
		} else {
			fmt.Println(err)
		}
		totalWaitTime += 5
		fmt.Printf("Waiting %d seconds", totalWaitTime)
		fmt.Println()
		time.Sleep(5 * time.Second)
	}
}
