package renderer

import (
	"encoding/binary"
	"fmt"
	"os"
	"os/exec"
)

// CompileShaderGLSL compiles a GLSL source string to SPIR-V words using
// glslc or glslangValidator. stage is "vert", "frag", or "comp".
func CompileShaderGLSL(source string, stage string, outputPath string) ([]uint32, error) {
	// The source goes through a temp file carrying the stage extension so
	// both compilers pick the right shader stage.
	tempSrc := outputPath + "." + stage
	if err := os.WriteFile(tempSrc, []byte(source), 0644); err != nil {
		return nil, err
	}
	defer os.Remove(tempSrc)

	var cmd *exec.Cmd

	if _, err := exec.LookPath("glslc"); err == nil {
		cmd = exec.Command("glslc", tempSrc, "-o", outputPath, "-O")
	} else if _, err := exec.LookPath("glslangValidator"); err == nil {
		cmd = exec.Command("glslangValidator", "-V", tempSrc, "-o", outputPath)
	} else {
		return nil, fmt.Errorf("no shader compiler found (glslc or glslangValidator)")
	}

	if output, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("shader compilation failed: %v\n%s", err, output)
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		return nil, err
	}
	defer os.Remove(outputPath)

	words := make([]uint32, len(data)/4)
	for i := 0; i < len(words); i++ {
		words[i] = binary.LittleEndian.Uint32(data[i*4:])
	}

	return words, nil
}

// Vertex shader: projection and model transform come from per-frame
// uniform slots; the instance index spreads the instanced draws along X.
const CubeVertexShaderGLSL = `
#version 450

layout(binding = 0) uniform CameraData {
    mat4 projection;
} camera;

layout(binding = 1) uniform ModelData {
    mat4 transform;
} model;

layout(location = 0) in vec3 inPosition;
layout(location = 1) in vec3 inNormal;
layout(location = 2) in vec2 inTexCoord;
layout(location = 3) in vec4 inColor;

layout(location = 0) out vec4 fragColor;

void main() {
    vec4 worldPos = model.transform * vec4(inPosition, 1.0);
    worldPos.x += (float(gl_InstanceIndex) * 2.0 - 1.0) * 1.5;
    gl_Position = camera.projection * worldPos;
    fragColor = inColor;
}
`

// Fragment shader: scales the vertex color by the scratch value the
// compute dispatch produced. On frames where the dispatch was skipped the
// scratch slot holds the zero the CPU wrote, so the cube renders black.
const CubeFragmentShaderGLSL = `
#version 450

layout(binding = 2) uniform samplerBuffer scratch;

layout(location = 0) in vec4 fragColor;

layout(location = 0) out vec4 outColor;

void main() {
    float scale = texelFetch(scratch, 0).r;
    outColor = vec4(fragColor.rgb * scale, 1.0);
}
`

// Compute shader: writes 1.0 into the scratch slot.
const ScratchComputeShaderGLSL = `
#version 450

layout(local_size_x = 1) in;

layout(binding = 0) buffer DispatchData {
    float value;
} dispatchData;

void main() {
    dispatchData.value = 1.0;
}
`
