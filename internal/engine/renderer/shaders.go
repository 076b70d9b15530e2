package renderer

// Scene pass: lit meshes, exposure, ACES filmic tone mapping, sRGB encode.
const sceneVertexShader = `#version 410 core

layout (location = 0) in vec3 aPosition;
layout (location = 1) in vec3 aNormal;

uniform mat4 uModel;
uniform mat4 uView;
uniform mat4 uProjection;

out vec3 vWorldPos;
out vec3 vNormal;

void main() {
	vec4 world = uModel * vec4(aPosition, 1.0);
	vWorldPos = world.xyz;
	vNormal = transpose(inverse(mat3(uModel))) * aNormal;
	gl_Position = uProjection * uView * world;
}
`

const sceneFragmentShader = `#version 410 core

#define MAX_DIRECTIONAL 6

in vec3 vWorldPos;
in vec3 vNormal;

uniform vec4 uBaseColor;
uniform vec3 uEmissive;
uniform bool uFlatShading;

uniform vec3 uAmbient;
uniform vec3 uSkyColor;
uniform vec3 uGroundColor;
uniform int uLightCount;
uniform vec3 uLightDir[MAX_DIRECTIONAL];
uniform vec3 uLightColor[MAX_DIRECTIONAL];

uniform float uExposure;
uniform int uToneMapping;
uniform bool uOutputSRGB;

out vec4 FragColor;

vec3 acesFilmic(vec3 x) {
	const float a = 2.51;
	const float b = 0.03;
	const float c = 2.43;
	const float d = 0.59;
	const float e = 0.14;
	return clamp((x * (a * x + b)) / (x * (c * x + d) + e), 0.0, 1.0);
}

vec3 linearToSRGB(vec3 c) {
	vec3 lo = c * 12.92;
	vec3 hi = 1.055 * pow(c, vec3(1.0 / 2.4)) - 0.055;
	return mix(lo, hi, step(vec3(0.0031308), c));
}

void main() {
	vec3 n;
	if (uFlatShading) {
		n = normalize(cross(dFdx(vWorldPos), dFdy(vWorldPos)));
	} else {
		n = normalize(vNormal);
	}
	if (!gl_FrontFacing) {
		n = -n;
	}

	vec3 albedo = uBaseColor.rgb;
	vec3 light = uAmbient + mix(uGroundColor, uSkyColor, 0.5 * n.y + 0.5);
	for (int i = 0; i < uLightCount; i++) {
		light += uLightColor[i] * max(dot(n, uLightDir[i]), 0.0);
	}

	vec3 color = albedo * light + uEmissive;
	color *= uExposure;
	if (uToneMapping == 1) {
		color = acesFilmic(color);
	}
	if (uOutputSRGB) {
		color = linearToSRGB(clamp(color, 0.0, 1.0));
	}
	FragColor = vec4(color, uBaseColor.a);
}
`

// Present pass: fullscreen triangle sampling the scene target through the
// saturation filter.
const presentVertexShader = `#version 410 core

out vec2 vUV;

void main() {
	vec2 pos = vec2((gl_VertexID << 1) & 2, gl_VertexID & 2);
	vUV = pos;
	gl_Position = vec4(pos * 2.0 - 1.0, 0.0, 1.0);
}
`

const presentFragmentShader = `#version 410 core

in vec2 vUV;

uniform sampler2D uScene;
uniform mat3 uSaturation;

out vec4 FragColor;

void main() {
	vec4 c = texture(uScene, vUV);
	FragColor = vec4(clamp(uSaturation * c.rgb, 0.0, 1.0), 1.0);
}
`
