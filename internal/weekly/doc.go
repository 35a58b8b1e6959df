// Package weekly runs the sync pipeline: fetch the README, extract issue
// entries, build the year/month taxonomy and write the data file.
//
// Stages run strictly in order on a single goroutine. The first failing stage
// aborts the run; the cached README written by the fetch stage is left in
// place, the data file is only touched by the final stage.
package weekly
