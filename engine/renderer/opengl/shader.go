package opengl

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.5-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/voxide/engine/renderer"
)

func (b *GLBackend) ShaderCreate(config *renderer.ShaderConfig) (renderer.ShaderHandle, error) {
	vertex, err := compileStage(config.Name, config.VertexSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vertex)

	fragment, err := compileStage(config.Name, config.FragmentSource, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(fragment)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertex)
	gl.AttachShader(program, fragment)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		defer gl.DeleteProgram(program)
		return 0, fmt.Errorf("shader %q: link failed: %s", config.Name, programInfoLog(program))
	}

	handle := renderer.ShaderHandle(program)
	b.shaders[handle] = true
	return handle, nil
}

func (b *GLBackend) ShaderDestroy(handle renderer.ShaderHandle) {
	if !b.shaders[handle] {
		return
	}
	gl.DeleteProgram(uint32(handle))
	delete(b.shaders, handle)
}

func (b *GLBackend) ShaderUse(handle renderer.ShaderHandle) error {
	if !b.shaders[handle] {
		return fmt.Errorf("shader use: unknown program %d", handle)
	}
	gl.UseProgram(uint32(handle))
	return nil
}

func (b *GLBackend) ShaderSetUniformMat4(handle renderer.ShaderHandle, name string, value mgl32.Mat4) error {
	location := gl.GetUniformLocation(uint32(handle), gl.Str(name+"\x00"))
	if location < 0 {
		return fmt.Errorf("shader uniform %q not found in program %d", name, handle)
	}
	gl.ProgramUniformMatrix4fv(uint32(handle), location, 1, false, &value[0])
	return nil
}

func compileStage(name, source string, stage uint32) (uint32, error) {
	shader := gl.CreateShader(stage)

	if !strings.HasSuffix(source, "\x00") {
		source += "\x00"
	}
	csources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		defer gl.DeleteShader(shader)
		return 0, fmt.Errorf("shader %q: compile failed: %s", name, shaderInfoLog(shader))
	}
	return shader, nil
}

func shaderInfoLog(shader uint32) string {
	var length int32
	gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &length)
	log := strings.Repeat("\x00", int(length+1))
	gl.GetShaderInfoLog(shader, length, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func programInfoLog(program uint32) string {
	var length int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &length)
	log := strings.Repeat("\x00", int(length+1))
	gl.GetProgramInfoLog(program, length, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}
