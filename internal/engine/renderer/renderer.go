// Package renderer provides OpenGL rendering functionality.
package renderer

import (
	"fmt"
	"strings"
	"unsafe"

	"go.uber.org/zap"

	"github.com/Faultbox/meshlod/internal/engine/mesh"
	"github.com/Faultbox/meshlod/internal/logger"
	"github.com/Faultbox/meshlod/pkg/math"
	"github.com/go-gl/gl/v4.1-core/gl"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
	VSync  bool
}

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config Config

	// Lambert shader program and uniform locations
	shaderProgram uint32
	uniformMVP    int32
	uniformModel  int32
	uniformLight  int32
	uniformColor  int32
}

// GPUMesh is a mesh uploaded to the GPU.
type GPUMesh struct {
	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32
}

// TriangleCount returns the number of triangles in the uploaded mesh.
func (g *GPUMesh) TriangleCount() int {
	return int(g.indexCount) / 3
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config: cfg,
	}

	// Initialize OpenGL
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	// Log OpenGL info
	version := gl.GoStr(gl.GetString(gl.VERSION))
	rendererName := gl.GoStr(gl.GetString(gl.RENDERER))
	logger.Info("OpenGL initialized",
		zap.String("version", version),
		zap.String("renderer", rendererName),
	)

	// Setup default OpenGL state
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.ClearColor(0.1, 0.1, 0.15, 1.0) // Dark blue-gray background

	// Create shader program
	var err error
	r.shaderProgram, err = r.createShaderProgram()
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}

	r.uniformMVP = gl.GetUniformLocation(r.shaderProgram, gl.Str("uMVP\x00"))
	r.uniformModel = gl.GetUniformLocation(r.shaderProgram, gl.Str("uModel\x00"))
	r.uniformLight = gl.GetUniformLocation(r.shaderProgram, gl.Str("uLightDir\x00"))
	r.uniformColor = gl.GetUniformLocation(r.shaderProgram, gl.Str("uColor\x00"))

	return r, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	if r.shaderProgram != 0 {
		gl.DeleteProgram(r.shaderProgram)
	}
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	gl.UseProgram(r.shaderProgram)

	// Fixed directional light, normalized in the shader
	gl.Uniform3f(r.uniformLight, 0.4, 0.8, 0.45)
}

// End finishes the current frame.
func (r *Renderer) End() {
	gl.BindVertexArray(0)
	gl.UseProgram(0)
}

// UploadMesh uploads a mesh to the GPU with interleaved positions and normals.
// The mesh must be indexed and carry one normal per vertex.
func (r *Renderer) UploadMesh(m *mesh.Mesh) (*GPUMesh, error) {
	if !m.HasIndices() {
		return nil, fmt.Errorf("mesh %q has no indices", m.ID)
	}
	if !m.HasNormals() {
		m.GenerateNormals()
	}

	vertexCount := m.VertexCount()
	interleaved := make([]float32, 0, vertexCount*6)
	for i := 0; i < vertexCount; i++ {
		interleaved = append(interleaved,
			m.Positions[i*3], m.Positions[i*3+1], m.Positions[i*3+2],
			m.Normals[i*3], m.Normals[i*3+1], m.Normals[i*3+2],
		)
	}

	g := &GPUMesh{indexCount: int32(len(m.Indices))}

	gl.GenVertexArrays(1, &g.vao)
	gl.BindVertexArray(g.vao)

	gl.GenBuffers(1, &g.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(interleaved)*4, unsafe.Pointer(&interleaved[0]), gl.STATIC_DRAW)

	gl.GenBuffers(1, &g.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, unsafe.Pointer(&m.Indices[0]), gl.STATIC_DRAW)

	// Position attribute (location = 0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 6*4, nil)
	gl.EnableVertexAttribArray(0)

	// Normal attribute (location = 1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, 6*4, unsafe.Pointer(uintptr(3*4)))
	gl.EnableVertexAttribArray(1)

	// Unbind
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, 0)

	logger.Debug("mesh uploaded",
		zap.String("mesh", m.ID),
		zap.Int("vertices", vertexCount),
		zap.Int("triangles", m.TriangleCount()),
		zap.Uint32("vao", g.vao),
	)
	return g, nil
}

// DeleteMesh frees the GPU resources of an uploaded mesh.
func (r *Renderer) DeleteMesh(g *GPUMesh) {
	if g == nil {
		return
	}
	if g.vao != 0 {
		gl.DeleteVertexArrays(1, &g.vao)
	}
	if g.vbo != 0 {
		gl.DeleteBuffers(1, &g.vbo)
	}
	if g.ebo != 0 {
		gl.DeleteBuffers(1, &g.ebo)
	}
	g.vao, g.vbo, g.ebo, g.indexCount = 0, 0, 0, 0
}

// Draw renders an uploaded mesh with the given transforms and color.
func (r *Renderer) Draw(g *GPUMesh, mvp, model *math.Mat4, color math.Vec3) {
	if g == nil || g.indexCount == 0 {
		return
	}

	gl.UniformMatrix4fv(r.uniformMVP, 1, false, mvp.Ptr())
	gl.UniformMatrix4fv(r.uniformModel, 1, false, model.Ptr())
	gl.Uniform3f(r.uniformColor, color.X, color.Y, color.Z)

	gl.BindVertexArray(g.vao)
	gl.DrawElements(gl.TRIANGLES, g.indexCount, gl.UNSIGNED_INT, nil)
}

// createShaderProgram creates the Lambert shader program.
func (r *Renderer) createShaderProgram() (uint32, error) {
	// Vertex shader - transforms vertices, passes world-space normals
	vertexShaderSource := `
		#version 410 core

		layout (location = 0) in vec3 aPos;
		layout (location = 1) in vec3 aNormal;

		uniform mat4 uMVP;
		uniform mat4 uModel;

		out vec3 worldNormal;

		void main() {
			gl_Position = uMVP * vec4(aPos, 1.0);
			worldNormal = mat3(uModel) * aNormal;
		}
	` + "\x00"

	// Fragment shader - Lambert diffuse with a small ambient term
	fragmentShaderSource := `
		#version 410 core

		in vec3 worldNormal;
		out vec4 FragColor;

		uniform vec3 uLightDir;
		uniform vec3 uColor;

		void main() {
			vec3 n = normalize(worldNormal);
			vec3 l = normalize(uLightDir);
			float diffuse = max(dot(n, l), 0.0);
			vec3 shaded = uColor * (0.15 + 0.85 * diffuse);
			FragColor = vec4(shaded, 1.0);
		}
	` + "\x00"

	// Compile vertex shader
	vertexShader, err := compileShader(vertexShaderSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex shader: %w", err)
	}
	defer gl.DeleteShader(vertexShader)

	// Compile fragment shader
	fragmentShader, err := compileShader(fragmentShaderSource, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, fmt.Errorf("fragment shader: %w", err)
	}
	defer gl.DeleteShader(fragmentShader)

	// Link program
	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	// Check link status
	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		return 0, fmt.Errorf("link failed: %s", log)
	}

	logger.Debug("shader program created", zap.Uint32("program", program))
	return program, nil
}

// compileShader compiles a shader from source.
func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)

	csources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	// Check compile status
	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		return 0, fmt.Errorf("compile failed: %s", log)
	}

	return shader, nil
}
