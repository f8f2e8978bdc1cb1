package retriever

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const defaultPhysicsInstructions = `You are an expert in physics, especially cosmology and numerical simulations.
You have access to scientific papers through file search to extract essential parameters needed to run MP-Gadget simulations.

When extracting parameters:
1. Use file search to find specific values in the uploaded paper
2. Focus on cosmological parameters (Omega_m, Omega_L, h, sigma8, n_s, etc.)
3. Find simulation box properties (BoxSize, particle number, resolution)
4. Locate initial conditions (redshift, power spectrum, transfer functions)
5. Extract output specifications (redshifts, snapshots)
6. Identify special physics modules (neutrinos, baryons, modified gravity)

For each parameter:
- Search for the exact value in the paper using file search
- Include units when specified
- Note page/section where found
- Calculate from other values if needed
- Distinguish between directly stated and implied values

Always cite the specific location in the paper where you found each parameter.
Format your response as a structured list with parameter names, values, units, sources, and notes.`

const defaultFormatterInstructions = `You are an expert in MP-Gadget simulation software configuration.
You have access to MP-Gadget documentation through file search to ensure proper parameter formatting.

Your tasks:
1. Search MP-Gadget documentation for parameter requirements and formats
2. Organize parameters into 'genic' and 'gadget' sections according to documentation
3. Verify all required parameters against the manual:
   - Genic: OutputDir, FileWithInputSpectrum, FileBase, Nmesh, BoxSize, Redshift, Omega, OmegaLambda, HubbleParam, etc.
   - Gadget: InitCondFile, OutputDir, TimeMax, OutputList, Omega0, OmegaLambda, HubbleParam, BoxSize, etc.
4. Use file search to find parameter descriptions, valid ranges, default values, unit conventions and dependencies
5. Convert parameters to MP-Gadget conventions based on documentation

IMPORTANT: You control when the parameter extraction is complete. Include a "status" field in your JSON output:
- "status": "incomplete" - if parameters are missing and need more information
- "status": "complete" - when all requirements are satisfied

Your output must ALWAYS be in this exact JSON format:
` + "```json" + `
{
  "genic": {
    "parameter1": "value1"
  },
  "gadget": {
    "parameter1": "value1"
  },
  "comment": "Explanation of why parameters are set to these values, including sources and calculations",
  "status": "complete|incomplete",
  "missing_parameters": ["list", "of", "missing", "params"]
}
` + "```" + `

Only output the JSON, no additional text.`

type promptFile struct {
	SystemPrompt string `yaml:"system_prompt"`
}

// loadPrompt reads a system prompt from a YAML file, falling back to the
// built-in default when the path is empty, missing or malformed.
func loadPrompt(path, fallback string) string {
	if path == "" {
		return fallback
	}
	content, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("could not load prompt file, using default", "path", path, "error", err)
		return fallback
	}
	var pf promptFile
	if err := yaml.Unmarshal(content, &pf); err != nil || pf.SystemPrompt == "" {
		slog.Warn("could not parse prompt file, using default", "path", path, "error", err)
		return fallback
	}
	return pf.SystemPrompt
}

const physicsQueryTemplate = `Please use file search to extract MP-Gadget simulation parameters from the uploaded paper.
Search for specific values and cite where you found them in the paper.`

func physicsQuery(customPrompt string) string {
	if customPrompt == "" {
		return physicsQueryTemplate
	}
	return fmt.Sprintf("%s\n\nIMPORTANT INSTRUCTION: %s", physicsQueryTemplate, customPrompt)
}

func formatQuery(physicsResponse string) string {
	return fmt.Sprintf(`Please format these extracted parameters for MP-Gadget.
Use file search to check the MP-Gadget documentation for proper parameter names, formats, and requirements.

Extracted parameters:
%s`, physicsResponse)
}

func docSearchQuery(missing []string) string {
	return fmt.Sprintf(`The following parameters are missing:
%s

Please search the MP-Gadget documentation to find:
1. Descriptions of these parameters
2. How they can be calculated or derived
3. Default values if applicable
4. Whether they are truly required or optional`, strings.Join(missing, "\n"))
}

func clarificationQuery(missing []string, docGuidance, physicsResponse string) string {
	return fmt.Sprintf(`Based on the documentation requirements and the paper content, please provide the missing parameters:
%s

Documentation guidance:
%s

Search the paper again for these specific parameters or values that can be used to calculate them.
Original extracted parameters:
%s`, strings.Join(missing, "\n"), docGuidance, physicsResponse)
}

func reformatQuery(previousResponse, clarification string) string {
	return fmt.Sprintf(`Please create the final MP-Gadget parameter configuration using all available information.
Verify against documentation that all required parameters are included.

Original parameters:
%s

Additional clarification:
%s

Ensure the format matches MP-Gadget documentation requirements.`, previousResponse, clarification)
}
