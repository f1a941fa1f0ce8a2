// Package system samples live process and system statistics from the
// operating system and writes them into the metric registry's gauges.
//
// Sampling is best-effort: a statistic that cannot be read (for example an
// open-descriptor count denied by the platform) leaves its gauge at the
// previous value, and no failure ever propagates to a scrape or a request.
package system
