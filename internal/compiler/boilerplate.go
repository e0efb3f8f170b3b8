package compiler

// DefaultHeader opens every generated workflow.
const DefaultHeader = `#!/usr/bin/env nextflow

// Generated by nfcompose. Edit the pipeline definition, not this file.

params.help = false
if (params.help) {
    log.info "Run with -params-file or --<param> to override params.config defaults."
    exit 0
}

nfRequiredVersion = "0.27.0"
if ( !nextflow.version.matches(">=${nfRequiredVersion}") ) {
    println "Nextflow ${nfRequiredVersion} or newer is required, found ${nextflow.version}"
    exit 1
}

log.info "========================================="
log.info " Workflow : ${workflow.scriptName}"
log.info " Launched : ${workflow.start}"
log.info "========================================="
`

// DefaultFooter closes every generated workflow.
const DefaultFooter = `
workflow.onComplete {
    log.info "Completed at : ${workflow.complete}"
    log.info "Duration     : ${workflow.duration}"
    log.info "Success      : ${workflow.success}"
    log.info "Exit status  : ${workflow.exitStatus}"
}
`
