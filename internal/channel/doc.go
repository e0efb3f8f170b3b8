// Package channel owns the naming scheme for every Nextflow channel the
// compiler generates. All code that needs a channel identifier builds it
// through this package so that the emitted text and companion exports agree
// on the exact format.
//
// Formats:
//
//	<template>_in_<lane>_<pos>    main input of a node
//	<template>_out_<lane>_<pos>   main output of a node
//	<alias>_<pid>                 secondary channel end of a consumer
//	<link>_<pid>                  secondary channel start of a producer
//	STATUS_<name>_<pid>           status channel
//	IN_<type>_raw                 raw user input of a given type
package channel
