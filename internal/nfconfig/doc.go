// Package nfconfig writes the Nextflow configuration files that accompany a
// generated workflow: parameter defaults, process resources and containers.
package nfconfig
