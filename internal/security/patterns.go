package security

import "regexp"

// patternRule pairs a compiled expression with the issue text and remediation
// recorded for every match. The matching loops are rule-agnostic; new checks
// are added here. An optional exclusion suppresses matches whose text also
// satisfies the exclusion expression.
type patternRule struct {
	expression     *regexp.Regexp
	exclusion      *regexp.Regexp
	issueLabel     string
	recommendation string
}

const (
	secretRecommendationConstant = "Move the credential into environment variables or a secret manager"

	attackSurfaceShellIssueConstant      = "subprocess call with shell=True enables shell injection"
	attackSurfaceShellRemedyConstant     = "Pass an argument list and drop shell=True"
	attackSurfaceOSSystemIssueConstant   = "os.system executes through the shell"
	attackSurfaceOSSystemRemedyConstant  = "Replace os.system with subprocess.run and an argument list"
	attackSurfaceEvalIssueConstant       = "eval on dynamic input allows arbitrary code execution"
	attackSurfaceEvalRemedyConstant      = "Replace eval with ast.literal_eval or explicit parsing"
	attackSurfaceExecIssueConstant       = "exec on dynamic input allows arbitrary code execution"
	attackSurfaceExecRemedyConstant      = "Remove exec and dispatch through explicit functions"
	attackSurfacePlaintextIssueConstant  = "outbound request over plaintext http"
	attackSurfacePlaintextRemedyConstant = "Switch the request URL to https"
	attackSurfacePickleIssueConstant     = "pickle.load deserializes untrusted data"
	attackSurfacePickleRemedyConstant    = "Use a safe serialization format such as JSON"
	attackSurfaceYamlLoadIssueConstant   = "yaml.load without a safe loader constructs arbitrary objects"
	attackSurfaceYamlLoadRemedyConstant  = "Use yaml.safe_load or pass Loader=yaml.SafeLoader"
	attackSurfaceTempFileIssueConstant   = "tempfile.mktemp creates a predictable temporary path"
	attackSurfaceTempFileRemedyConstant  = "Use tempfile.mkstemp or NamedTemporaryFile"
)

// secretPatternRules is the fixed ordered list applied to text-like files.
var secretPatternRules = []patternRule{
	{
		expression:     regexp.MustCompile(`AKIA[0-9A-Z]{16}`),
		issueLabel:     "AWS access key identifier embedded in source",
		recommendation: secretRecommendationConstant,
	},
	{
		expression:     regexp.MustCompile(`(?i)secret\s*=\s*["'][^"']{8,}["']`),
		issueLabel:     "hardcoded secret assignment",
		recommendation: secretRecommendationConstant,
	},
	{
		expression:     regexp.MustCompile(`(?i)password\s*=\s*["'][^"']{6,}["']`),
		issueLabel:     "hardcoded password assignment",
		recommendation: secretRecommendationConstant,
	},
	{
		expression:     regexp.MustCompile(`-----BEGIN (?:RSA |EC |DSA |OPENSSH )?PRIVATE KEY-----`),
		issueLabel:     "private key material committed to the repository",
		recommendation: secretRecommendationConstant,
	},
}

// attackSurfaceRules lists the eight high-risk code patterns scanned in Python
// sources.
var attackSurfaceRules = []patternRule{
	{
		expression:     regexp.MustCompile(`subprocess\.(?:run|call|Popen|check_output)\([^)]*shell\s*=\s*True`),
		issueLabel:     attackSurfaceShellIssueConstant,
		recommendation: attackSurfaceShellRemedyConstant,
	},
	{
		expression:     regexp.MustCompile(`os\.system\s*\(`),
		issueLabel:     attackSurfaceOSSystemIssueConstant,
		recommendation: attackSurfaceOSSystemRemedyConstant,
	},
	{
		expression:     regexp.MustCompile(`(?m)(?:^|[^\w.])eval\s*\(`),
		issueLabel:     attackSurfaceEvalIssueConstant,
		recommendation: attackSurfaceEvalRemedyConstant,
	},
	{
		expression:     regexp.MustCompile(`(?m)(?:^|[^\w.])exec\s*\(`),
		issueLabel:     attackSurfaceExecIssueConstant,
		recommendation: attackSurfaceExecRemedyConstant,
	},
	{
		expression:     regexp.MustCompile(`requests\.(?:get|post|put|delete|patch)\(\s*["']http://`),
		issueLabel:     attackSurfacePlaintextIssueConstant,
		recommendation: attackSurfacePlaintextRemedyConstant,
	},
	{
		expression:     regexp.MustCompile(`pickle\.loads?\s*\(`),
		issueLabel:     attackSurfacePickleIssueConstant,
		recommendation: attackSurfacePickleRemedyConstant,
	},
	{
		expression:     regexp.MustCompile(`yaml\.load\s*\([^)]*\)`),
		exclusion:      regexp.MustCompile(`SafeLoader|safe_load`),
		issueLabel:     attackSurfaceYamlLoadIssueConstant,
		recommendation: attackSurfaceYamlLoadRemedyConstant,
	},
	{
		expression:     regexp.MustCompile(`tempfile\.mktemp\s*\(`),
		issueLabel:     attackSurfaceTempFileIssueConstant,
		recommendation: attackSurfaceTempFileRemedyConstant,
	},
}
