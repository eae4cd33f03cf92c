// pkg/render/opengl/shaders.go
package opengl

// Vertex attribute locations shared by every program.
const (
	attribPosition = 0
	attribNormal   = 1
	attribUV       = 2
)

// sceneVertexShader transforms the plane and planet meshes.
const sceneVertexShader = `#version 410 core
layout(location = 0) in vec3 aPosition;
layout(location = 1) in vec3 aNormal;
layout(location = 2) in vec2 aUV;

uniform mat4 uModel;
uniform mat4 uView;
uniform mat4 uProj;

out vec3 vWorldPos;
out vec3 vNormal;

void main() {
    vec4 world = uModel * vec4(aPosition, 1.0);
    vWorldPos = world.xyz;
    vNormal = mat3(transpose(inverse(uModel))) * aNormal;
    gl_Position = uProj * uView * world;
}
` + "\x00"

// flagVertexShader displaces the rest mesh of the flag along X by the sum of
// three sine waves, faded in from the mount edge. The normal follows from
// the partial derivatives of the same sum.
const flagVertexShader = `#version 410 core
layout(location = 0) in vec3 aPosition;
layout(location = 1) in vec3 aNormal;
layout(location = 2) in vec2 aUV;

uniform mat4 uModel;
uniform mat4 uView;
uniform mat4 uProj;

uniform float uAccumTime;
uniform vec4 uWaveParams[3];     // amplitude, phi, omega, unused
uniform vec2 uWaveDirections[3];
uniform vec2 uSpan;              // mount, free

out vec3 vWorldPos;
out vec3 vNormal;

void main() {
    vec2 p = aPosition.yz;
    float taper = (p.y - uSpan.x) / (uSpan.y - uSpan.x);
    float dTaper = 1.0 / (uSpan.y - uSpan.x);

    float sum = 0.0;
    vec2 grad = vec2(0.0);
    for (int i = 0; i < 3; i++) {
        float a = uWaveParams[i].x;
        float phi = uWaveParams[i].y;
        float omega = uWaveParams[i].z;
        float arg = dot(uWaveDirections[i], p) * omega + uAccumTime * phi;
        sum += a * sin(arg);
        grad += a * cos(arg) * omega * uWaveDirections[i];
    }

    float d = sum * taper;
    vec2 dd = grad * taper + vec2(0.0, sum * dTaper);
    vec3 normal = normalize(vec3(1.0, -dd.x, -dd.y));

    vec4 world = uModel * vec4(d, p.x, p.y, 1.0);
    vWorldPos = world.xyz;
    vNormal = mat3(transpose(inverse(uModel))) * normal;
    gl_Position = uProj * uView * world;
}
` + "\x00"

// colorFragmentShader shades with the material colors and a fixed sun.
const colorFragmentShader = `#version 410 core
in vec3 vWorldPos;
in vec3 vNormal;

struct Material {
    vec3 diffuse;
    vec3 emission;
};
uniform Material uMaterial;

out vec4 fragColor;

const vec3 sunDir = normalize(vec3(0.3, 1.0, 0.2));

void main() {
    float light = 0.35 + 0.65 * abs(dot(normalize(vNormal), sunDir));
    fragColor = vec4(uMaterial.diffuse * light + uMaterial.emission, 1.0);
}
` + "\x00"

// normalFragmentShader shows the view-facing normal as a color. The flag is
// two-sided, so its normal is flipped towards the viewer.
const normalFragmentShader = `#version 410 core
in vec3 vWorldPos;
in vec3 vNormal;

uniform vec3 uViewPos;
uniform bool isFlag;

out vec4 fragColor;

void main() {
    vec3 n = normalize(vNormal);
    if (isFlag && dot(n, uViewPos - vWorldPos) < 0.0) {
        n = -n;
    }
    fragColor = vec4(n * 0.5 + 0.5, 1.0);
}
` + "\x00"
