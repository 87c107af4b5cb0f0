package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/ludo-technologies/shapedup/domain"
	svc "github.com/ludo-technologies/shapedup/service"
)

// ScanUseCase orchestrates the duplication scan workflow
type ScanUseCase struct {
	service      domain.DuplicationService
	fileReader   domain.FileReader
	formatter    domain.DuplicationOutputFormatter
	configLoader domain.DuplicationConfigurationLoader
	output       domain.ReportWriter
}

// NewScanUseCase creates a new scan use case
func NewScanUseCase(
	service domain.DuplicationService,
	fileReader domain.FileReader,
	formatter domain.DuplicationOutputFormatter,
	configLoader domain.DuplicationConfigurationLoader,
) *ScanUseCase {
	return &ScanUseCase{
		service:      service,
		fileReader:   fileReader,
		formatter:    formatter,
		configLoader: configLoader,
		output:       svc.NewFileOutputWriter(nil),
	}
}

// prepareAnalysis validates the request, merges configuration and resolves
// the input paths into files
func (uc *ScanUseCase) prepareAnalysis(req domain.DuplicationRequest) (domain.DuplicationRequest, error) {
	if err := uc.validateRequest(req); err != nil {
		return req, domain.NewInvalidInputError("invalid request", err)
	}

	finalReq, err := uc.loadAndMergeConfig(req)
	if err != nil {
		return req, domain.NewConfigError("failed to load configuration", err)
	}

	files, err := ResolveFilePaths(
		uc.fileReader,
		finalReq.Paths,
		finalReq.Recursive,
		finalReq.IncludePatterns,
		finalReq.ExcludePatterns,
	)
	if err != nil {
		return req, domain.NewFileNotFoundError("failed to collect files", err)
	}

	if len(files) == 0 {
		return req, domain.NewInvalidInputError("no source files found in the specified paths", nil)
	}

	finalReq.Paths = files
	return finalReq, nil
}

// Execute performs the complete scan: analysis, formatting and output. The
// report is written even when a check fails; the CHECK_FAILED error then
// accompanies the response.
func (uc *ScanUseCase) Execute(ctx context.Context, req domain.DuplicationRequest) (*domain.DuplicationResponse, error) {
	finalReq, err := uc.prepareAnalysis(req)
	if err != nil {
		return nil, err
	}

	response, err := uc.service.Analyze(ctx, finalReq)
	if err != nil {
		return nil, domain.NewAnalysisError("duplication analysis failed", err)
	}

	// file formats default to a timestamped report under the output directory
	if finalReq.OutputPath == "" && svc.IsFileFormat(finalReq.OutputFormat) {
		finalReq.OutputPath = svc.ReportPath(finalReq.OutputDir, finalReq.OutputFormat, time.Now())
	}

	var out io.Writer
	if finalReq.OutputPath == "" {
		out = finalReq.OutputWriter
	}
	if err := uc.output.Write(out, finalReq.OutputPath, finalReq.OutputFormat, finalReq.NoOpen, func(w io.Writer) error {
		return uc.formatter.Write(response, finalReq.OutputFormat, w)
	}); err != nil {
		return response, domain.NewOutputError("failed to write output", err)
	}

	return response, uc.checkThresholds(finalReq, response)
}

// checkThresholds fails a completed scan whose total is above MaxTotal or,
// with FailOnDiagnostics, that produced any diagnostic
func (uc *ScanUseCase) checkThresholds(req domain.DuplicationRequest, response *domain.DuplicationResponse) error {
	if response.ExceedsMaxTotal(req.MaxTotal) {
		return domain.NewCheckFailedError(fmt.Sprintf("Total score too high! %d > %d", response.Total, req.MaxTotal))
	}
	if req.FailOnDiagnostics && len(response.Diagnostics) > 0 {
		return domain.NewCheckFailedError(fmt.Sprintf("%d file(s) produced diagnostics", len(response.Diagnostics)))
	}
	return nil
}

// AnalyzeAndReturn performs the analysis and returns the response without formatting
func (uc *ScanUseCase) AnalyzeAndReturn(ctx context.Context, req domain.DuplicationRequest) (*domain.DuplicationResponse, error) {
	finalReq, err := uc.prepareAnalysis(req)
	if err != nil {
		return nil, err
	}

	response, err := uc.service.Analyze(ctx, finalReq)
	if err != nil {
		return nil, domain.NewAnalysisError("duplication analysis failed", err)
	}

	return response, nil
}

func (uc *ScanUseCase) validatePaths(req domain.DuplicationRequest) error {
	if len(req.Paths) == 0 {
		return fmt.Errorf("no input paths specified")
	}
	return nil
}

func (uc *ScanUseCase) validateOutput(req domain.DuplicationRequest) error {
	if req.OutputWriter == nil && req.OutputPath == "" {
		return fmt.Errorf("output writer or output path is required")
	}
	if req.OutputFormat != "" && !req.OutputFormat.IsValid() {
		return fmt.Errorf("unsupported output format: %s", req.OutputFormat)
	}
	return nil
}

// validateRequest checks what can be checked before configuration is merged;
// option ranges are validated again by the service on the final request
func (uc *ScanUseCase) validateRequest(req domain.DuplicationRequest) error {
	validators := []func(domain.DuplicationRequest) error{
		uc.validatePaths,
		uc.validateOutput,
	}

	for _, validator := range validators {
		if err := validator(req); err != nil {
			return err
		}
	}

	return nil
}

// loadAndMergeConfig loads configuration from file and merges with request
func (uc *ScanUseCase) loadAndMergeConfig(req domain.DuplicationRequest) (domain.DuplicationRequest, error) {
	if uc.configLoader == nil {
		return req, nil
	}

	var configReq *domain.DuplicationRequest
	var err error

	if req.ConfigPath != "" {
		configReq, err = uc.configLoader.LoadConfig(req.ConfigPath)
		if err != nil {
			return req, fmt.Errorf("failed to load config from %s: %w", req.ConfigPath, err)
		}
	} else {
		target := ""
		if len(req.Paths) > 0 {
			target = req.Paths[0]
		}
		configReq = uc.configLoader.LoadDefaultConfig(target)
	}

	if configReq != nil {
		merged := uc.configLoader.MergeConfig(configReq, &req)
		return *merged, nil
	}

	return req, nil
}

// ScanUseCaseBuilder provides a builder pattern for creating ScanUseCase
type ScanUseCaseBuilder struct {
	service      domain.DuplicationService
	fileReader   domain.FileReader
	formatter    domain.DuplicationOutputFormatter
	configLoader domain.DuplicationConfigurationLoader
	output       domain.ReportWriter
}

// NewScanUseCaseBuilder creates a new builder
func NewScanUseCaseBuilder() *ScanUseCaseBuilder {
	return &ScanUseCaseBuilder{}
}

// WithService sets the duplication service
func (b *ScanUseCaseBuilder) WithService(service domain.DuplicationService) *ScanUseCaseBuilder {
	b.service = service
	return b
}

// WithFileReader sets the file reader
func (b *ScanUseCaseBuilder) WithFileReader(fileReader domain.FileReader) *ScanUseCaseBuilder {
	b.fileReader = fileReader
	return b
}

// WithFormatter sets the output formatter
func (b *ScanUseCaseBuilder) WithFormatter(formatter domain.DuplicationOutputFormatter) *ScanUseCaseBuilder {
	b.formatter = formatter
	return b
}

// WithConfigLoader sets the configuration loader
func (b *ScanUseCaseBuilder) WithConfigLoader(configLoader domain.DuplicationConfigurationLoader) *ScanUseCaseBuilder {
	b.configLoader = configLoader
	return b
}

// WithOutputWriter sets the report writer
func (b *ScanUseCaseBuilder) WithOutputWriter(output domain.ReportWriter) *ScanUseCaseBuilder {
	b.output = output
	return b
}

// Build creates the ScanUseCase. The config loader is optional; without one
// the request is used as given.
func (b *ScanUseCaseBuilder) Build() (*ScanUseCase, error) {
	if b.service == nil {
		return nil, fmt.Errorf("duplication service is required")
	}
	if b.fileReader == nil {
		return nil, fmt.Errorf("file reader is required")
	}
	if b.formatter == nil {
		return nil, fmt.Errorf("output formatter is required")
	}

	uc := NewScanUseCase(
		b.service,
		b.fileReader,
		b.formatter,
		b.configLoader,
	)
	if b.output != nil {
		uc.output = b.output
	}
	return uc, nil
}
