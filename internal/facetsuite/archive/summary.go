package archive

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/G-Research/facetsuite/internal/common/suiteerrors"
)

// UnknownDescription stands in for the description of a job whose summary has none.
const UnknownDescription = "unknown"

// Summary is the interpreted result of a single job.
type Summary struct {
	Description string
	Success     bool
	// False if the summary has no usable success field; Success is meaningless then.
	SuccessKnown  bool
	FailureReason string
	Owner         string
	// All fields after merging, including those not interpreted above.
	Raw map[string]interface{}
}

// ReadSummary reads every YAML document of the job's summary file and merges them top
// to bottom; later documents override fields of earlier ones. JSON summaries are read as
// YAML. Scalars keep their YAML types, so numbers stay integers where they were written so.
// The returned error satisfies os.IsNotExist if the job hasn't finished.
func (a *Archive) ReadSummary(jobId string) (map[string]interface{}, error) {
	path := a.SummaryPath(jobId)
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	merged := make(map[string]interface{})
	decoder := yaml.NewDecoder(f)
	for {
		var doc map[interface{}]interface{}
		if err := decoder.Decode(&doc); err != nil {
			if err == io.EOF {
				break
			}
			return nil, errors.Wrapf(err, "failed to parse summary %s", path)
		}
		for k, v := range doc {
			merged[fmt.Sprint(k)] = v
		}
	}
	return merged, nil
}

// ParseSummary interprets the merged fields of a summary. It always returns the best
// interpretation it can; problems are returned as a multierror of
// *suiteerrors.ErrMalformedSummary.
func ParseSummary(jobId string, raw map[string]interface{}) (*Summary, error) {
	var result *multierror.Error
	s := &Summary{
		Description:   UnknownDescription,
		FailureReason: stringField(raw, "failure_reason"),
		Owner:         stringField(raw, "owner"),
		Raw:           raw,
	}

	if v, ok := raw["description"]; ok && v != nil {
		s.Description = fmt.Sprint(v)
	} else {
		result = multierror.Append(result, &suiteerrors.ErrMalformedSummary{JobId: jobId, Reason: "missing description"})
	}

	switch v := raw["success"].(type) {
	case bool:
		s.Success = v
		s.SuccessKnown = true
	case nil:
		result = multierror.Append(result, &suiteerrors.ErrMalformedSummary{JobId: jobId, Reason: "missing success"})
	default:
		result = multierror.Append(result, &suiteerrors.ErrMalformedSummary{
			JobId:  jobId,
			Reason: fmt.Sprintf("success is not a boolean: %v", v),
		})
	}

	if result != nil {
		result.ErrorFormat = joinErrors
	}
	return s, result.ErrorOrNil()
}

// joinErrors keeps multiple summary problems on one line, so they can be used as a failure reason.
func joinErrors(errs []error) string {
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

func stringField(raw map[string]interface{}, key string) string {
	v, ok := raw[key]
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
